package cpu

import (
	"slices"

	"github.com/23skdu/multiversion/internal/features"
	"github.com/23skdu/multiversion/internal/target"
)

// Static reports the features the compiler was allowed to assume for this
// binary. Its answers never change at runtime.
type Static struct {
	eval    evaluator
	cpu     string
	enabled []string
}

// NewStatic returns the compile-time detector for the current build. The
// baseline comes from GOAMD64 on amd64 and the architecture default elsewhere.
func NewStatic() *Static {
	return newStatic(target.Current(), baselineCPU, features.Default())
}

func newStatic(arch target.Arch, cpu string, tbl *features.Table) *Static {
	s := &Static{cpu: cpu}
	if cpu != "" {
		s.enabled, _ = tbl.CPU(arch.String(), cpu)
	}
	s.eval = evaluator{arch: arch, table: tbl, probe: s.Has}
	return s
}

func (s *Static) Arch() target.Arch { return s.eval.arch }

func (s *Static) Runtime() bool { return false }

func (s *Static) Detect(t target.Target) bool { return s.eval.detect(t) }

func (s *Static) Has(feature string) bool {
	_, ok := slices.BinarySearch(s.enabled, feature)
	return ok
}

// Baseline returns the CPU name and features the build assumes.
func (s *Static) Baseline() (string, []string) {
	return s.cpu, slices.Clone(s.enabled)
}
