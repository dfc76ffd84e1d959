package core

import (
	"math"
	"unsafe"
)

// Weight is the numeric type used for edge weights and distance results.
// It must be totally ordered; NaN weights are not supported.
type Weight interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// MaxWeight returns the largest value representable by W (+Inf for floats).
// It seeds "worst possible" comparisons.
func MaxWeight[W Weight]() W {
	var w W
	if isFloat(w) {
		return W(math.Inf(1))
	}
	shift := 64 - unsafe.Sizeof(w)*8
	if isSigned(w) {
		v := int64(math.MaxInt64) >> shift
		return W(v)
	}
	v := uint64(math.MaxUint64) >> shift
	return W(v)
}

// MinWeight returns the smallest value representable by W (-Inf for floats).
func MinWeight[W Weight]() W {
	var w W
	if isFloat(w) {
		return W(math.Inf(-1))
	}
	if !isSigned(w) {
		return 0
	}
	shift := 64 - unsafe.Sizeof(w)*8
	v := int64(math.MinInt64) >> shift
	return W(v)
}

func isFloat[W Weight](_ W) bool {
	one := W(1)
	return one/2 != 0
}

func isSigned[W Weight](_ W) bool {
	zero := W(0)
	return zero-1 < zero
}
