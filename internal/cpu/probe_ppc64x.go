//go:build ppc64 || ppc64le

package cpu

import "golang.org/x/sys/cpu"

// POWER8 is the minimum GOPPC64 level, so the vector units are always present.
func platformProbes() map[string]func() bool {
	flag := func(b bool) func() bool { return func() bool { return b } }

	return map[string]func() bool{
		"altivec":        flag(true),
		"vsx":            flag(true),
		"power8-altivec": flag(cpu.PPC64.IsPOWER8),
		"power8-vector":  flag(cpu.PPC64.IsPOWER8),
		"power8-crypto":  flag(cpu.PPC64.IsPOWER8),
		"power9-altivec": flag(cpu.PPC64.IsPOWER9),
		"power9-vector":  flag(cpu.PPC64.IsPOWER9),
	}
}
