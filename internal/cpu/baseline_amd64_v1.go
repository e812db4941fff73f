//go:build amd64 && !amd64.v2

package cpu

const baselineCPU = "x86-64"
