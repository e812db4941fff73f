// Package cpu answers "does this CPU support target T" for dispatchers.
//
// Three detectors share one evaluation path: Runtime probes the running CPU,
// Static reports the features the binary was compiled to assume, and
// Simulated serves a fixed feature set for tests and tooling.
package cpu

import (
	"sort"

	"github.com/23skdu/multiversion/internal/features"
	"github.com/23skdu/multiversion/internal/metrics"
	"github.com/23skdu/multiversion/internal/target"
)

// Detector decides whether a target's features are available.
type Detector interface {
	// Arch is the architecture the detector answers for. Targets for any
	// other architecture are never probed and never match.
	Arch() target.Arch
	// Runtime reports whether Detect consults the running CPU. A false
	// value means answers are fixed at compile time.
	Runtime() bool
	// Detect reports whether every feature of t is available.
	Detect(t target.Target) bool
	// Has reports whether a single feature is available.
	Has(feature string) bool
}

// evaluator runs a target's predicate against a probe, skipping probes for
// features already implied by a confirmed one. Features reported by blocked
// are absent even when a confirmed feature implies them.
type evaluator struct {
	arch    target.Arch
	table   *features.Table
	probe   func(feature string) bool
	blocked func(feature string) bool
}

func (e *evaluator) detect(t target.Target) bool {
	if t.Arch() != e.arch {
		return false
	}

	arch := e.arch.String()
	pred := t.Predicate()
	// Strongest features first so weaker ones can be skipped.
	sort.SliceStable(pred.Features, func(i, j int) bool {
		return len(e.table.Implied(arch, pred.Features[i])) > len(e.table.Implied(arch, pred.Features[j]))
	})

	var confirmed []string
	return pred.Eval(e.arch, func(f string) bool {
		if e.blocked != nil && e.blocked(f) {
			return false
		}
		for _, c := range confirmed {
			if e.table.Implies(arch, c, f) {
				metrics.FeatureProbesSkipped.WithLabelValues(arch).Inc()
				return true
			}
		}
		ok := e.probe(f)
		metrics.FeatureProbesTotal.WithLabelValues(arch, f, metrics.ProbeResult(ok)).Inc()
		if ok {
			confirmed = append(confirmed, f)
		}
		return ok
	})
}
