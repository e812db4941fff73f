//go:build arm64

package cpu

const baselineCPU = "generic"
