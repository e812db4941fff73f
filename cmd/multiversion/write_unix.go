//go:build !windows

package main

import "github.com/google/renameio"

// writeFile replaces path atomically, so an interrupted go generate never
// leaves a truncated file behind.
func writeFile(path string, data []byte) error {
	return renameio.WriteFile(path, data, 0o644)
}
