//go:build arm64

package cpu

import "golang.org/x/sys/cpu"

func platformProbes() map[string]func() bool {
	flag := func(b bool) func() bool { return func() bool { return b } }

	return map[string]func() bool{
		"fp":      flag(cpu.ARM64.HasFP),
		"neon":    flag(cpu.ARM64.HasASIMD),
		"aes":     flag(cpu.ARM64.HasAES),
		"pmull":   flag(cpu.ARM64.HasPMULL),
		"sha2":    flag(cpu.ARM64.HasSHA1 && cpu.ARM64.HasSHA2),
		"sha3":    flag(cpu.ARM64.HasSHA3 && cpu.ARM64.HasSHA512),
		"sm4":     flag(cpu.ARM64.HasSM3 && cpu.ARM64.HasSM4),
		"crc":     flag(cpu.ARM64.HasCRC32),
		"lse":     flag(cpu.ARM64.HasATOMICS),
		"rcpc":    flag(cpu.ARM64.HasLRCPC),
		"dit":     flag(cpu.ARM64.HasDIT),
		"rdm":     flag(cpu.ARM64.HasASIMDRDM),
		"dotprod": flag(cpu.ARM64.HasASIMDDP),
		"fp16":    flag(cpu.ARM64.HasFPHP && cpu.ARM64.HasASIMDHP),
		"fhm":     flag(cpu.ARM64.HasASIMDFHM),
		"fcma":    flag(cpu.ARM64.HasFCMA),
		"jsconv":  flag(cpu.ARM64.HasJSCVT),
		"i8mm":    flag(cpu.ARM64.HasI8MM),
		"sve":     flag(cpu.ARM64.HasSVE),
		"sve2":    flag(cpu.ARM64.HasSVE2),
	}
}
