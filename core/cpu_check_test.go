package core

import (
	"runtime"
	"testing"

	"golang.org/x/sys/cpu"
)

func TestCPUFeaturesReportsAVX(t *testing.T) {
	if runtime.GOARCH != "amd64" {
		t.Skip("x86 only")
	}
	features := CPUFeatures()
	found := false
	for _, f := range features {
		if f == "avx" {
			found = true
		}
	}
	if found != cpu.X86.HasAVX {
		t.Errorf("avx reported=%v, cpu.X86.HasAVX=%v", found, cpu.X86.HasAVX)
	}
}

func TestCPUFeaturesNoDuplicates(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range CPUFeatures() {
		if seen[f] {
			t.Errorf("feature %q reported twice", f)
		}
		seen[f] = true
	}
}
