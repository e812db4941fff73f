package dispatch

import (
	mverrors "github.com/23skdu/multiversion/internal/errors"
	"github.com/23skdu/multiversion/internal/target"
)

// IndexFor returns the selector of the variant registered for exactly the
// caller's target, or DefaultIndex when there is none or caller is nil.
// It never probes the CPU and never touches the cache.
func (d *Dispatcher[F]) IndexFor(caller *target.Target) int {
	if caller == nil {
		return DefaultIndex
	}
	for i, e := range d.entries {
		if e.Target.Equal(*caller) {
			return i + FirstTargetIndex
		}
	}
	return DefaultIndex
}

// For returns the callee variant matching the caller's already-selected
// target, so a multiversioned body can call another multiversioned function
// without a second detection and without landing on a different target.
//
// caller must be a target whose features are known to be present (the
// caller's own selection, see Current); a nil caller selects the default.
func (d *Dispatcher[F]) For(caller *target.Target) F {
	return d.variantAt(d.IndexFor(caller)).Fn
}

// Bind is For with a check that the callee is multiversioned at all.
func Bind[F any](callee *Dispatcher[F], caller *target.Target) (F, error) {
	if callee == nil {
		var zero F
		return zero, mverrors.New(mverrors.ErrAmbiguousTarget, "bind", "callee is not multiversioned")
	}
	return callee.For(caller), nil
}
