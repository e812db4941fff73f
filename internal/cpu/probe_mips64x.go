//go:build mips64 || mips64le

package cpu

import "golang.org/x/sys/cpu"

func platformProbes() map[string]func() bool {
	return map[string]func() bool{
		"msa": func() bool { return cpu.MIPS64X.HasMSA },
	}
}
