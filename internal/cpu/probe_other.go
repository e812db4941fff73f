//go:build !386 && !amd64 && !arm64 && !arm && !ppc64 && !ppc64le && !s390x && !riscv64 && !loong64 && !mips64 && !mips64le

package cpu

// No runtime probing facility: dispatchers fall back to the compile-time detector.
func platformProbes() map[string]func() bool { return nil }
