//go:build riscv64

package cpu

import "golang.org/x/sys/cpu"

func platformProbes() map[string]func() bool {
	flag := func(b bool) func() bool { return func() bool { return b } }

	return map[string]func() bool{
		"c":    flag(cpu.RISCV64.HasC),
		"v":    flag(cpu.RISCV64.HasV),
		"zba":  flag(cpu.RISCV64.HasZba),
		"zbb":  flag(cpu.RISCV64.HasZbb),
		"zbs":  flag(cpu.RISCV64.HasZbs),
		"zvbb": flag(cpu.RISCV64.HasZvbb),
		"zvbc": flag(cpu.RISCV64.HasZvbc),
	}
}
