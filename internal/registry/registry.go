// Package registry holds the variants of one multiversioned function: an
// ordered list of (target, variant) pairs plus exactly one default.
package registry

import (
	"errors"
	"iter"
	"sync"

	mverrors "github.com/23skdu/multiversion/internal/errors"
	"github.com/23skdu/multiversion/internal/metrics"
	"github.com/23skdu/multiversion/internal/target"
)

// Variant is one implementation of a function.
type Variant[F any] struct {
	// Name identifies the implementation in logs and metrics.
	Name string
	Fn   F
	// Target is nil for the default variant.
	Target *target.Target
	// Unsafe marks a body that is only correct when its target's features are
	// present. Such a variant must only be reached through a successful
	// detection or an already-confirmed caller target.
	Unsafe bool
}

// IsDefault reports whether v carries no target.
func (v Variant[F]) IsDefault() bool { return v.Target == nil }

// Entry pairs a target with the variant compiled for it.
type Entry[F any] struct {
	Target  target.Target
	Variant Variant[F]
}

// Registry stores the variants of one function. Registration order is the
// selection priority: the first entry whose target is supported wins.
type Registry[F any] struct {
	mu       sync.RWMutex
	function string
	entries  []Entry[F]
	def      *Variant[F]
	sealed   bool
}

// New returns an empty registry for the named function.
func New[F any](function string) *Registry[F] {
	return &Registry[F]{function: function}
}

// Function returns the name of the function the registry belongs to.
func (r *Registry[F]) Function() string { return r.function }

// Register appends v for t. It fails if an equal target is already present.
func (r *Registry[F]) Register(t target.Target, v Variant[F]) error {
	return r.add([]target.Target{t}, []Variant[F]{v})
}

// RegisterText parses text and registers v for every descriptor it yields.
// A bracketed architecture list therefore adds one entry per architecture.
// Either every descriptor is registered or none is.
func (r *Registry[F]) RegisterText(text string, v Variant[F]) error {
	ts, err := target.Parse(text)
	if err != nil {
		metrics.RegistryErrorsTotal.WithLabelValues(kindLabel(err)).Inc()
		return err
	}
	vs := make([]Variant[F], len(ts))
	for i := range vs {
		vs[i] = v
	}
	return r.add(ts, vs)
}

// Clones registers the same body for every listed target. Variant names are
// derived from the targets. Either every target is registered or none is.
func (r *Registry[F]) Clones(fn F, texts ...string) error {
	var ts []target.Target
	for _, text := range texts {
		parsed, err := target.Parse(text)
		if err != nil {
			metrics.RegistryErrorsTotal.WithLabelValues(kindLabel(err)).Inc()
			return err
		}
		ts = append(ts, parsed...)
	}
	vs := make([]Variant[F], len(ts))
	for i := range vs {
		vs[i] = Variant[F]{Fn: fn, Unsafe: true}
	}
	return r.add(ts, vs)
}

// add checks every target against the registry and against the rest of the
// batch before appending any of them.
func (r *Registry[F]) add(ts []target.Target, vs []Variant[F]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return r.fail(mverrors.ErrSealed, "register", "registry is sealed")
	}
	for i, t := range ts {
		for _, e := range r.entries {
			if e.Target.Equal(t) {
				return r.fail(mverrors.ErrDuplicateTarget, "register", "target already registered").
					WithContext("target", t.String())
			}
		}
		for _, prev := range ts[:i] {
			if prev.Equal(t) {
				return r.fail(mverrors.ErrDuplicateTarget, "register", "target listed twice").
					WithContext("target", t.String())
			}
		}
	}
	for i, t := range ts {
		v := vs[i]
		tc := t
		v.Target = &tc
		if v.Name == "" {
			v.Name = r.function + "_" + t.Arch().String() + "_" + t.Suffix()
		}
		r.entries = append(r.entries, Entry[F]{Target: t, Variant: v})
	}
	return nil
}

// SetDefault installs the fallback variant. It may only be called once.
func (r *Registry[F]) SetDefault(v Variant[F]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return r.fail(mverrors.ErrSealed, "set_default", "registry is sealed")
	}
	if r.def != nil {
		return r.fail(mverrors.ErrDuplicateDefault, "set_default", "default variant already set")
	}
	v.Target = nil
	v.Unsafe = false
	if v.Name == "" {
		v.Name = r.function + "_default"
	}
	r.def = &v
	return nil
}

// Seal ends construction. It fails when no default was supplied; sealing an
// already sealed registry is a no-op.
func (r *Registry[F]) Seal() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return nil
	}
	if r.def == nil {
		return r.fail(mverrors.ErrMissingDefault, "seal", "no default variant")
	}
	r.sealed = true
	return nil
}

// Sealed reports whether Seal succeeded.
func (r *Registry[F]) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Entries returns the registered pairs in priority order.
func (r *Registry[F]) Entries() []Entry[F] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Entry[F](nil), r.entries...)
}

// All iterates the registered pairs in priority order.
func (r *Registry[F]) All() iter.Seq2[int, Entry[F]] {
	return func(yield func(int, Entry[F]) bool) {
		for i, e := range r.Entries() {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Default returns the fallback variant.
func (r *Registry[F]) Default() (Variant[F], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.def == nil {
		var zero Variant[F]
		return zero, false
	}
	return *r.def, true
}

// Lookup returns the variant registered for a target equal to t.
func (r *Registry[F]) Lookup(t target.Target) (Variant[F], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.Target.Equal(t) {
			return e.Variant, true
		}
	}
	var zero Variant[F]
	return zero, false
}

// Len returns the number of targeted entries (the default is not counted).
func (r *Registry[F]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry[F]) fail(kind mverrors.Kind, op, msg string) *mverrors.StructuredError {
	metrics.RegistryErrorsTotal.WithLabelValues(string(kind)).Inc()
	return mverrors.NewConfigurationError(kind, op, msg).WithContext("function", r.function)
}

func kindLabel(err error) string {
	if k, ok := mverrors.KindOf(err); ok {
		return string(k)
	}
	return "unknown"
}

// Decl declares one targeted variant for Build.
type Decl[F any] struct {
	Target  string
	Variant Variant[F]
}

// Build constructs and seals a registry in one step. Every declaration is
// checked and all failures are reported together; on any failure no
// registry is returned.
func Build[F any](function string, def Variant[F], decls ...Decl[F]) (*Registry[F], error) {
	r := New[F](function)
	var errs []error
	for _, d := range decls {
		if err := r.RegisterText(d.Target, d.Variant); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.SetDefault(def); err != nil {
		errs = append(errs, err)
	}
	if err := r.Seal(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// MustBuild is Build for package-level variables; it panics on error.
func MustBuild[F any](function string, def Variant[F], decls ...Decl[F]) *Registry[F] {
	r, err := Build(function, def, decls...)
	if err != nil {
		panic(err)
	}
	return r
}
