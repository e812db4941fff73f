//go:build arm

package cpu

import "golang.org/x/sys/cpu"

func platformProbes() map[string]func() bool {
	flag := func(b bool) func() bool { return func() bool { return b } }

	return map[string]func() bool{
		"vfp2":  flag(cpu.ARM.HasVFP),
		"vfp3":  flag(cpu.ARM.HasVFPv3),
		"vfp4":  flag(cpu.ARM.HasVFPv4),
		"d32":   flag(cpu.ARM.HasVFPD32),
		"neon":  flag(cpu.ARM.HasNEON),
		"aes":   flag(cpu.ARM.HasAES),
		"pmull": flag(cpu.ARM.HasPMULL),
		"sha2":  flag(cpu.ARM.HasSHA1 && cpu.ARM.HasSHA2),
		"crc":   flag(cpu.ARM.HasCRC32),
	}
}
