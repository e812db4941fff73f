package cpu

import (
	"sort"

	"github.com/klauspost/cpuid/v2"

	"github.com/23skdu/multiversion/internal/target"
)

// Info summarises the running CPU for diagnostics.
type Info struct {
	Arch          target.Arch
	Brand         string
	Vendor        string
	PhysicalCores int
	LogicalCores  int
	// X64Level is the x86-64 microarchitecture level (1-4), 0 when not x86-64.
	X64Level int
	// Features lists what the platform probes report present.
	Features []string
	// BaselineCPU is the CPU baseline the binary was compiled for.
	BaselineCPU string
}

// Describe collects Info using d for the feature list.
func Describe(d *Runtime) Info {
	info := Info{
		Arch:          d.Arch(),
		Brand:         cpuid.CPU.BrandName,
		Vendor:        cpuid.CPU.VendorString,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		LogicalCores:  cpuid.CPU.LogicalCores,
		X64Level:      cpuid.CPU.X64Level(),
		BaselineCPU:   baselineCPU,
	}
	for _, f := range d.Known() {
		if d.Has(f) {
			info.Features = append(info.Features, f)
		}
	}
	sort.Strings(info.Features)
	return info
}
