// Package kernels is a small numeric library built on multiversioned
// functions. Every exported kernel has a portable default and variants
// compiled for wider vector extensions; the dispatchers in
// multiversion_gen.go pick one per process.
package kernels

//go:generate go run ../../cmd/multiversion gen -f multiversion.yaml -o multiversion_gen.go

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned by the binary kernels when the operands
// differ in length.
var ErrLengthMismatch = errors.New("kernels: length mismatch")

func checkLen(a, b int) error {
	if a != b {
		return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, a, b)
	}
	return nil
}

// Accumulator keeps a running sum. The concrete type depends on the
// variant NewAccumulator selected.
type Accumulator interface {
	Add(x ...float64)
	Sum() float64
	Reset()
}
