//go:build 386 || amd64

package cpu

import (
	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
)

// platformProbes maps x86 feature names onto x/sys/cpu flags. Flags that
// x/sys/cpu does not expose come from cpuid.
func platformProbes() map[string]func() bool {
	flag := func(b bool) func() bool { return func() bool { return b } }
	id := func(f cpuid.FeatureID) func() bool { return func() bool { return cpuid.CPU.Supports(f) } }

	return map[string]func() bool{
		"fxsr":            id(cpuid.FXSR),
		"sse":             id(cpuid.SSE),
		"sse2":            flag(cpu.X86.HasSSE2),
		"sse3":            flag(cpu.X86.HasSSE3),
		"ssse3":           flag(cpu.X86.HasSSSE3),
		"sse4.1":          flag(cpu.X86.HasSSE41),
		"sse4.2":          flag(cpu.X86.HasSSE42),
		"sse4a":           id(cpuid.SSE4A),
		"popcnt":          flag(cpu.X86.HasPOPCNT),
		"cmpxchg16b":      flag(cpu.X86.HasCX16),
		"avx":             flag(cpu.X86.HasAVX),
		"avx2":            flag(cpu.X86.HasAVX2),
		"fma":             flag(cpu.X86.HasFMA),
		"f16c":            id(cpuid.F16C),
		"bmi1":            flag(cpu.X86.HasBMI1),
		"bmi2":            flag(cpu.X86.HasBMI2),
		"lzcnt":           id(cpuid.LZCNT),
		"movbe":           id(cpuid.MOVBE),
		"xsave":           id(cpuid.XSAVE),
		"adx":             flag(cpu.X86.HasADX),
		"rdrand":          flag(cpu.X86.HasRDRAND),
		"rdseed":          flag(cpu.X86.HasRDSEED),
		"aes":             flag(cpu.X86.HasAES),
		"pclmulqdq":       flag(cpu.X86.HasPCLMULQDQ),
		"sha":             id(cpuid.SHA),
		"gfni":            flag(cpu.X86.HasAVX512GFNI),
		"vaes":            flag(cpu.X86.HasAVX512VAES),
		"vpclmulqdq":      flag(cpu.X86.HasAVX512VPCLMULQDQ),
		"avxvnni":         flag(cpu.X86.HasAVXVNNI),
		"avxifma":         flag(cpu.X86.HasAVXIFMA),
		"avx512f":         flag(cpu.X86.HasAVX512F),
		"avx512bw":        flag(cpu.X86.HasAVX512BW),
		"avx512cd":        flag(cpu.X86.HasAVX512CD),
		"avx512dq":        flag(cpu.X86.HasAVX512DQ),
		"avx512vl":        flag(cpu.X86.HasAVX512VL),
		"avx512ifma":      flag(cpu.X86.HasAVX512IFMA),
		"avx512vbmi":      flag(cpu.X86.HasAVX512VBMI),
		"avx512vbmi2":     flag(cpu.X86.HasAVX512VBMI2),
		"avx512vnni":      flag(cpu.X86.HasAVX512VNNI),
		"avx512bitalg":    flag(cpu.X86.HasAVX512BITALG),
		"avx512vpopcntdq": flag(cpu.X86.HasAVX512VPOPCNTDQ),
		"avx512bf16":      flag(cpu.X86.HasAVX512BF16),
		"avx512fp16":      id(cpuid.AVX512FP16),
	}
}
