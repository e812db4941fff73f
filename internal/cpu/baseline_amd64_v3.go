//go:build amd64.v3 && !amd64.v4

package cpu

const baselineCPU = "x86-64-v3"
