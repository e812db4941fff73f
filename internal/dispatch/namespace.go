package dispatch

import (
	"sort"
	"sync"

	mverrors "github.com/23skdu/multiversion/internal/errors"
	"github.com/23skdu/multiversion/internal/target"
)

// Namespace maps function names to their dispatchers so one multiversioned
// body can reference another by name.
type Namespace struct {
	name    string
	mu      sync.RWMutex
	entries map[string]any
}

// NewNamespace returns an empty namespace.
func NewNamespace(name string) *Namespace {
	return &Namespace{name: name, entries: make(map[string]any)}
}

// Name returns the namespace name.
func (ns *Namespace) Name() string { return ns.name }

// Register adds d under its signature name.
func Register[F any](ns *Namespace, d *Dispatcher[F]) error {
	if d == nil {
		return mverrors.New(mverrors.ErrAmbiguousTarget, "register", "nil dispatcher").
			WithContext("namespace", ns.name)
	}
	name := d.Signature().Name

	ns.mu.Lock()
	defer ns.mu.Unlock()
	if _, ok := ns.entries[name]; ok {
		return mverrors.Newf(mverrors.ErrAmbiguousTarget, "register", "function %q registered twice", name).
			WithContext("namespace", ns.name)
	}
	ns.entries[name] = d
	return nil
}

// MustRegister is Register for package initialization.
func MustRegister[F any](ns *Namespace, d *Dispatcher[F]) *Dispatcher[F] {
	if err := Register(ns, d); err != nil {
		panic(err)
	}
	return d
}

// Lookup finds the dispatcher registered under name. A missing name or a
// dispatcher of a different function type is an ambiguous reference.
func Lookup[F any](ns *Namespace, name string) (*Dispatcher[F], error) {
	ns.mu.RLock()
	v, ok := ns.entries[name]
	ns.mu.RUnlock()

	if !ok {
		return nil, mverrors.Newf(mverrors.ErrAmbiguousTarget, "lookup", "%q is not a multiversioned function", name).
			WithContext("namespace", ns.name)
	}
	d, ok := v.(*Dispatcher[F])
	if !ok {
		return nil, mverrors.Newf(mverrors.ErrAmbiguousTarget, "lookup", "%q has a different signature", name).
			WithContext("namespace", ns.name)
	}
	return d, nil
}

// StaticCall resolves name to the variant matching caller's target.
func StaticCall[F any](ns *Namespace, name string, caller *target.Target) (F, error) {
	d, err := Lookup[F](ns, name)
	if err != nil {
		var zero F
		return zero, err
	}
	return d.For(caller), nil
}

// Names lists the registered function names.
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	out := make([]string, 0, len(ns.entries))
	for n := range ns.entries {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
