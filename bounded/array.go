// Package bounded provides a fixed-capacity container of (key, weight) pairs
// kept in ascending weight order.
//
// The capacity is part of the type: Array stores its entries inline in an
// array value chosen at the call site (Cap1 through Cap256), so a neighbour
// list embedded in a graph node costs no extra allocation and never grows.
// Used as a priority queue, RemoveAt(0) pops the lightest entry.
package bounded

import (
	"fmt"
	"iter"

	"github.com/patrikhermansson/hnav/core"
)

// Entry is one (key, weight) pair.
type Entry[K any, W core.Weight] struct {
	Key    K
	Weight W
}

// Storage is the set of inline backing arrays an Array can use.
type Storage[K any, W core.Weight] interface {
	~[1]Entry[K, W] | ~[2]Entry[K, W] | ~[3]Entry[K, W] | ~[4]Entry[K, W] |
		~[5]Entry[K, W] | ~[6]Entry[K, W] | ~[8]Entry[K, W] | ~[10]Entry[K, W] |
		~[12]Entry[K, W] | ~[16]Entry[K, W] | ~[20]Entry[K, W] | ~[24]Entry[K, W] |
		~[32]Entry[K, W] | ~[48]Entry[K, W] | ~[64]Entry[K, W] | ~[96]Entry[K, W] |
		~[128]Entry[K, W] | ~[256]Entry[K, W]
}

// Backing storage types, one per supported capacity.
type (
	Cap1[K any, W core.Weight]   [1]Entry[K, W]
	Cap2[K any, W core.Weight]   [2]Entry[K, W]
	Cap3[K any, W core.Weight]   [3]Entry[K, W]
	Cap4[K any, W core.Weight]   [4]Entry[K, W]
	Cap5[K any, W core.Weight]   [5]Entry[K, W]
	Cap6[K any, W core.Weight]   [6]Entry[K, W]
	Cap8[K any, W core.Weight]   [8]Entry[K, W]
	Cap10[K any, W core.Weight]  [10]Entry[K, W]
	Cap12[K any, W core.Weight]  [12]Entry[K, W]
	Cap16[K any, W core.Weight]  [16]Entry[K, W]
	Cap20[K any, W core.Weight]  [20]Entry[K, W]
	Cap24[K any, W core.Weight]  [24]Entry[K, W]
	Cap32[K any, W core.Weight]  [32]Entry[K, W]
	Cap48[K any, W core.Weight]  [48]Entry[K, W]
	Cap64[K any, W core.Weight]  [64]Entry[K, W]
	Cap96[K any, W core.Weight]  [96]Entry[K, W]
	Cap128[K any, W core.Weight] [128]Entry[K, W]
	Cap256[K any, W core.Weight] [256]Entry[K, W]
)

// Array is a fixed-capacity list of entries sorted ascending by weight.
// The zero value is an empty array ready to use. Array is a value type;
// copying it copies the entries.
type Array[K any, W core.Weight, S Storage[K, W]] struct {
	items S
	size  int
}

// MaxSize returns the capacity fixed by S.
func (a *Array[K, W, S]) MaxSize() int { return len(a.items) }

// Size returns the number of stored entries.
func (a *Array[K, W, S]) Size() int { return a.size }

// IsEmpty reports whether the array holds no entries.
func (a *Array[K, W, S]) IsEmpty() bool { return a.size == 0 }

// IsFull reports whether Size equals MaxSize.
func (a *Array[K, W, S]) IsFull() bool { return a.size == len(a.items) }

// TryAdd inserts (key, weight) keeping ascending weight order. When the array
// is full the entry is accepted only if weight is strictly below MaxWeight,
// in which case the heaviest entry is evicted. Entries with equal weight keep
// their insertion order.
func (a *Array[K, W, S]) TryAdd(key K, weight W) bool {
	if a.size == len(a.items) {
		if !(weight < a.items[a.size-1].Weight) {
			return false
		}
		a.size--
	}

	pos := a.upperBound(weight)
	for i := a.size; i > pos; i-- {
		a.items[i] = a.items[i-1]
	}
	a.items[pos] = Entry[K, W]{Key: key, Weight: weight}
	a.size++
	return true
}

// upperBound returns the first position whose weight is greater than w.
func (a *Array[K, W, S]) upperBound(w W) int {
	lo, hi := 0, a.size
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if a.items[mid].Weight <= w {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// RemoveAt extracts the key at position and shifts the following entries
// down. It panics if position is out of range.
func (a *Array[K, W, S]) RemoveAt(position int) K {
	if position < 0 || position >= a.size {
		panic(fmt.Sprintf("bounded: RemoveAt(%d) out of range [0:%d]", position, a.size))
	}
	key := a.items[position].Key
	for i := position; i < a.size-1; i++ {
		a.items[i] = a.items[i+1]
	}
	a.size--
	var zero Entry[K, W]
	a.items[a.size] = zero
	return key
}

// At returns the entry at position. It panics if position is out of range.
func (a *Array[K, W, S]) At(position int) Entry[K, W] {
	if position < 0 || position >= a.size {
		panic(fmt.Sprintf("bounded: At(%d) out of range [0:%d]", position, a.size))
	}
	return a.items[position]
}

// Values returns the keys in ascending weight order.
func (a *Array[K, W, S]) Values() []K {
	out := make([]K, a.size)
	for i := 0; i < a.size; i++ {
		out[i] = a.items[i].Key
	}
	return out
}

// Weights returns the weights in ascending order.
func (a *Array[K, W, S]) Weights() []W {
	out := make([]W, a.size)
	for i := 0; i < a.size; i++ {
		out[i] = a.items[i].Weight
	}
	return out
}

// Entries returns a copy of the stored entries in ascending weight order.
func (a *Array[K, W, S]) Entries() []Entry[K, W] {
	out := make([]Entry[K, W], a.size)
	for i := 0; i < a.size; i++ {
		out[i] = a.items[i]
	}
	return out
}

// All iterates over (key, weight) pairs in ascending weight order.
func (a *Array[K, W, S]) All() iter.Seq2[K, W] {
	return func(yield func(K, W) bool) {
		for i := 0; i < a.size; i++ {
			if !yield(a.items[i].Key, a.items[i].Weight) {
				return
			}
		}
	}
}

// MinValue returns the key with the smallest weight, or the zero key when empty.
func (a *Array[K, W, S]) MinValue() K {
	if a.size == 0 {
		var zero K
		return zero
	}
	return a.items[0].Key
}

// MaxValue returns the key with the largest weight, or the zero key when empty.
func (a *Array[K, W, S]) MaxValue() K {
	if a.size == 0 {
		var zero K
		return zero
	}
	return a.items[a.size-1].Key
}

// MinWeight returns the smallest stored weight. An empty array reports
// core.MaxWeight so that any real weight compares as an improvement.
func (a *Array[K, W, S]) MinWeight() W {
	if a.size == 0 {
		return core.MaxWeight[W]()
	}
	return a.items[0].Weight
}

// MaxWeight returns the largest stored weight, or core.MaxWeight when empty.
func (a *Array[K, W, S]) MaxWeight() W {
	if a.size == 0 {
		return core.MaxWeight[W]()
	}
	return a.items[a.size-1].Weight
}
