//go:build s390x

package cpu

import "golang.org/x/sys/cpu"

func platformProbes() map[string]func() bool {
	return map[string]func() bool{
		"vector":                func() bool { return cpu.S390X.HasVX },
		"vector-enhancements-1": func() bool { return cpu.S390X.HasVXE },
	}
}
