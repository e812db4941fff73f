// multiversion generates and inspects multiversioned functions.
//
// Usage:
//
//	multiversion gen -f multiversion.yaml -o multiversion_gen.go
//	multiversion inspect -f multiversion.yaml --simulate x86_64+avx+avx2
//	multiversion targets "[x86|x86_64]+avx+avx2"
//	multiversion detect
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
