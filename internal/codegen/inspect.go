package codegen

import (
	"github.com/23skdu/multiversion/internal/dispatch"
	"github.com/23skdu/multiversion/internal/registry"
	"github.com/23skdu/multiversion/internal/target"
)

// Report describes how one manifest function would dispatch.
type Report struct {
	Function string
	Default  string
	Strategy dispatch.Strategy
	Entries  []ReportEntry
	// Selected is the selector the detector leads to; Variant is the
	// function behind it.
	Selected int
	Variant  string
}

// ReportEntry is one expanded registry entry.
type ReportEntry struct {
	Index  int
	Target target.Target
	Fn     string
	Unsafe bool
}

// Inspect builds a real dispatcher for every function of m, with no-op
// bodies, and reports its entries and selection. opts choose the detectors.
func Inspect(m *Manifest, opts ...dispatch.Option) ([]Report, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	noop := func() {}
	reports := make([]Report, 0, len(m.Functions))
	for i := range m.Functions {
		f := &m.Functions[i]

		decls := make([]registry.Decl[func()], len(f.Variants))
		for j, v := range f.Variants {
			decls[j] = registry.Decl[func()]{
				Target:  v.Target,
				Variant: registry.Variant[func()]{Name: v.Fn, Fn: noop, Unsafe: v.Unsafe},
			}
		}
		reg, err := registry.Build(f.Name, registry.Variant[func()]{Name: f.Default, Fn: noop}, decls...)
		if err != nil {
			return nil, err
		}

		d, err := dispatch.New(f.signature(), reg, append([]dispatch.Option{dispatch.WithStrategy(f.strategy)}, opts...)...)
		if err != nil {
			return nil, err
		}

		r := Report{Function: f.Name, Default: f.Default, Strategy: d.Strategy()}
		for j, e := range d.Entries() {
			r.Entries = append(r.Entries, ReportEntry{
				Index:  j + dispatch.FirstTargetIndex,
				Target: e.Target,
				Fn:     e.Variant.Name,
				Unsafe: e.Variant.Unsafe,
			})
		}
		sel := d.Selected()
		r.Selected = sel.Index
		r.Variant = sel.Name
		reports = append(reports, r)
	}
	return reports, nil
}
