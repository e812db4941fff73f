//go:build amd64.v2 && !amd64.v3

package cpu

const baselineCPU = "x86-64-v2"
