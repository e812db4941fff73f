package cpu

import (
	"sync"

	"github.com/23skdu/multiversion/internal/features"
	"github.com/23skdu/multiversion/internal/target"
)

// Probe records one feature query made against a Simulated detector.
type Probe struct {
	Arch    target.Arch
	Feature string
}

// Simulated is a detector with a fixed feature set. It records every probe
// so callers can check which features were actually queried.
type Simulated struct {
	eval    evaluator
	runtime bool
	present map[string]bool

	mu     sync.Mutex
	probes []Probe
}

// NewSimulated returns a runtime-capable detector for arch that reports
// exactly feats as present.
func NewSimulated(arch target.Arch, feats ...string) *Simulated {
	s := &Simulated{runtime: true, present: make(map[string]bool, len(feats))}
	for _, f := range feats {
		s.present[f] = true
	}
	s.eval = evaluator{arch: arch, table: features.Default(), probe: s.Has}
	return s
}

// FromTarget simulates a CPU that supports exactly t's features.
func FromTarget(t target.Target) *Simulated {
	return NewSimulated(t.Arch(), t.Features()...)
}

// CompileTime turns s into a compile-time detector (Runtime reports false).
func (s *Simulated) CompileTime() *Simulated {
	s.runtime = false
	return s
}

func (s *Simulated) Arch() target.Arch { return s.eval.arch }

func (s *Simulated) Runtime() bool { return s.runtime }

func (s *Simulated) Detect(t target.Target) bool { return s.eval.detect(t) }

func (s *Simulated) Has(feature string) bool {
	s.mu.Lock()
	s.probes = append(s.probes, Probe{Arch: s.eval.arch, Feature: feature})
	s.mu.Unlock()
	return s.present[feature]
}

// Probes returns the probes made so far, in order.
func (s *Simulated) Probes() []Probe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Probe(nil), s.probes...)
}

// ProbeCount returns how many probes were made.
func (s *Simulated) ProbeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.probes)
}
