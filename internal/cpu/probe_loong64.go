//go:build loong64

package cpu

import "golang.org/x/sys/cpu"

func platformProbes() map[string]func() bool {
	return map[string]func() bool{
		"lsx":   func() bool { return cpu.Loong64.HasLSX },
		"lasx":  func() bool { return cpu.Loong64.HasLASX },
		"crc32": func() bool { return cpu.Loong64.HasCRC32 },
	}
}
