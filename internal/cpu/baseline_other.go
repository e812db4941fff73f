//go:build !amd64 && !arm64 && !386

package cpu

const baselineCPU = ""
