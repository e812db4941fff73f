//go:build 386

package cpu

// Assumes the default GO386=sse2.
const baselineCPU = "pentium4"
