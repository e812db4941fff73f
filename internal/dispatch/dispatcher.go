// Package dispatch selects, caches and invokes the best variant of a
// multiversioned function for the running CPU.
//
// A Dispatcher moves from unresolved to resolved exactly once in logical
// terms. The cache is a single atomic slot: concurrent first callers may each
// walk the registry, but they all compute the same answer, so whichever store
// lands last is as good as the first. After that every call costs one atomic
// load (Direct, Indirect) or nothing at all (Static).
package dispatch

import (
	"reflect"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/23skdu/multiversion/internal/config"
	"github.com/23skdu/multiversion/internal/cpu"
	mverrors "github.com/23skdu/multiversion/internal/errors"
	"github.com/23skdu/multiversion/internal/metrics"
	"github.com/23skdu/multiversion/internal/registry"
	"github.com/23skdu/multiversion/internal/target"
)

// Selector values. The slot holds 0 until resolved, DefaultIndex for the
// default variant and FirstTargetIndex+i for the i-th registry entry.
const (
	unresolved       uint32 = 0
	DefaultIndex            = 1
	FirstTargetIndex        = 2
)

type options struct {
	strategy  Strategy
	preferred Strategy
	detector  cpu.Detector
	static    cpu.Detector
	logger    zerolog.Logger
	hardening bool
}

// Option configures a Dispatcher.
type Option func(*options)

// WithStrategy requests a strategy explicitly. An explicit Indirect request
// that the signature cannot honour fails setup.
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithDetector replaces the runtime feature detector.
func WithDetector(d cpu.Detector) Option {
	return func(o *options) { o.detector = d }
}

// WithStaticDetector replaces the compile-time detector used by the Static
// strategy and by dispatcher elision.
func WithStaticDetector(d cpu.Detector) Option {
	return func(o *options) { o.static = d }
}

// WithLogger sets the logger for setup and resolution events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithIndirectHardening keeps the default policy away from Indirect, so no
// call goes through a stored function value.
func WithIndirectHardening() Option {
	return func(o *options) { o.hardening = true }
}

// WithConfig applies process settings: the preferred strategy and
// indirect-branch hardening.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		if s, err := ParseStrategy(cfg.Strategy); err == nil {
			o.preferred = s
		}
		o.hardening = o.hardening || cfg.IndirectHardening
	}
}

func defaultOptions() options {
	o := options{
		logger: zerolog.Nop(),
	}
	cfg, _ := config.Process()
	WithConfig(cfg)(&o)
	return o
}

// Selection describes the variant a dispatcher routes to.
type Selection struct {
	Index    int
	Name     string
	Target   *target.Target
	Strategy Strategy
	Unsafe   bool
}

// Dispatcher routes calls of one function to its selected variant.
type Dispatcher[F any] struct {
	sig      Signature
	strategy Strategy
	entries  []registry.Entry[F]
	def      registry.Variant[F]
	detector cpu.Detector
	logger   zerolog.Logger

	// static is fixed at construction for StrategyStatic.
	static uint32
	index  atomic.Uint32
	fn     atomic.Pointer[F]
}

// New validates the registry and signature and builds a dispatcher. Every
// configuration problem is reported here; once New succeeds, dispatch
// cannot fail.
func New[F any](sig Signature, reg *registry.Registry[F], opts ...Option) (*Dispatcher[F], error) {
	if reg == nil {
		return nil, setupError(mverrors.ErrMissingDefault, sig.Name, "no variant registry")
	}
	if sig.Name == "" {
		sig.Name = reg.Function()
	}
	if err := reg.Seal(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.detector == nil {
		o.detector = cpu.Default()
	}
	if o.static == nil {
		o.static = cpu.NewStatic()
	}

	d := &Dispatcher[F]{
		sig:      sig,
		entries:  reg.Entries(),
		detector: o.detector,
		logger:   o.logger.With().Str("function", sig.Name).Logger(),
	}
	d.def, _ = reg.Default()

	isFunc := reflect.TypeFor[F]().Kind() == reflect.Func
	if isFunc {
		if err := d.checkBodies(); err != nil {
			return nil, err
		}
	}

	targets := make([]target.Target, len(d.entries))
	for i, e := range d.entries {
		targets[i] = e.Target
	}
	strategy, err := o.choose(sig, isFunc, targets, d.logger)
	if err != nil {
		return nil, err
	}
	d.strategy = strategy

	if strategy == StrategyStatic {
		src := o.static
		if !o.detector.Runtime() {
			src = o.detector
		}
		d.static = d.walk(src)
	}

	metrics.DispatchersTotal.WithLabelValues(strategy.String()).Inc()
	d.logger.Debug().
		Str("strategy", strategy.String()).
		Int("targets", len(d.entries)).
		Str("arch", o.detector.Arch().String()).
		Msg("dispatcher configured")
	return d, nil
}

// MustNew is New for package-level variables; it panics on error, which
// surfaces setup problems during package initialization.
func MustNew[F any](sig Signature, reg *registry.Registry[F], opts ...Option) *Dispatcher[F] {
	d, err := New(sig, reg, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Dispatcher[F]) checkBodies() error {
	if reflect.ValueOf(any(d.def.Fn)).IsNil() {
		return setupError(mverrors.ErrUnknownVariant, d.sig.Name, "default variant has no body").
			WithContext("variant", d.def.Name)
	}
	for _, e := range d.entries {
		if reflect.ValueOf(any(e.Variant.Fn)).IsNil() {
			return setupError(mverrors.ErrUnknownVariant, d.sig.Name, "variant has no body").
				WithContext("variant", e.Variant.Name).
				WithContext("target", e.Target.String())
		}
	}
	return nil
}

// choose applies an explicit strategy or the default policy.
func (o *options) choose(sig Signature, isFunc bool, targets []target.Target, logger zerolog.Logger) (Strategy, error) {
	indirectOK := sig.IndirectCapable() && isFunc

	switch o.strategy {
	case StrategyIndirect:
		if !indirectOK {
			return StrategyDefault, setupError(mverrors.ErrUnsupportedDispatch, sig.Name,
				"indirect dispatch requires a non-generic synchronous function with a concrete return type")
		}
		if o.hardening {
			logger.Warn().Msg("indirect-branch hardening enabled, using direct dispatch")
			return StrategyDirect, nil
		}
		return StrategyIndirect, nil
	case StrategyStatic, StrategyDirect:
		return o.strategy, nil
	case StrategyDefault:
	default:
		return StrategyDefault, setupError(mverrors.ErrUnsupportedDispatch, sig.Name, "unknown strategy")
	}

	if !o.detector.Runtime() || o.preferred == StrategyStatic || elided(targets, o.detector.Arch(), o.static) {
		return StrategyStatic, nil
	}
	switch o.preferred {
	case StrategyDirect:
		return StrategyDirect, nil
	case StrategyIndirect:
		if !indirectOK {
			logger.Warn().Msg("indirect dispatch preferred but not possible for this signature, using direct dispatch")
		}
	}
	if indirectOK && !o.hardening {
		return StrategyIndirect, nil
	}
	return StrategyDirect, nil
}

// elided reports whether the compile-time detector already knows the answer
// runtime detection would give: the first entry for arch is enabled at
// compile time, or there is no entry for arch at all.
func elided(targets []target.Target, arch target.Arch, static cpu.Detector) bool {
	if static == nil || static.Arch() != arch {
		return false
	}
	for _, t := range targets {
		if t.Arch() != arch {
			continue
		}
		return static.Detect(t)
	}
	return true
}

func setupError(kind mverrors.Kind, function, msg string) *mverrors.StructuredError {
	metrics.RegistryErrorsTotal.WithLabelValues(string(kind)).Inc()
	return mverrors.NewConfigurationError(kind, "new_dispatcher", msg).WithContext("function", function)
}

// walk returns the selector for the first entry det accepts. Entries for
// other architectures are skipped without consulting det.
func (d *Dispatcher[F]) walk(det cpu.Detector) uint32 {
	arch := det.Arch()
	for i, e := range d.entries {
		if e.Target.Arch() != arch {
			continue
		}
		if det.Detect(e.Target) {
			return uint32(i) + FirstTargetIndex
		}
	}
	return DefaultIndex
}

// resolve runs detection and fills the cache. Racing callers store the same
// value.
func (d *Dispatcher[F]) resolve() uint32 {
	start := time.Now()
	idx := d.walk(d.detector)
	elapsed := time.Since(start)

	v := d.variantAt(int(idx))
	if d.strategy == StrategyIndirect {
		fn := v.Fn
		d.fn.Store(&fn)
	}
	d.index.Store(idx)

	metrics.DispatchDetectionSeconds.WithLabelValues(d.sig.Name).Observe(elapsed.Seconds())
	metrics.DispatchResolutionsTotal.WithLabelValues(d.sig.Name, v.Name, d.strategy.String()).Inc()
	metrics.DispatchSelectedIndex.WithLabelValues(d.sig.Name).Set(float64(idx))
	d.logger.Debug().
		Str("variant", v.Name).
		Uint32("index", idx).
		Str("strategy", d.strategy.String()).
		Dur("detection", elapsed).
		Msg("dispatch resolved")
	return idx
}

// Index returns the selector of the chosen variant: DefaultIndex or
// FirstTargetIndex plus the entry's position. Generated call sites switch on
// it. The first call on a cold cache runs detection.
func (d *Dispatcher[F]) Index() int {
	if d.strategy == StrategyStatic {
		return int(d.static)
	}
	if i := d.index.Load(); i != unresolved {
		return int(i)
	}
	return int(d.resolve())
}

// Func returns the selected variant's body.
func (d *Dispatcher[F]) Func() F {
	if d.strategy == StrategyIndirect {
		if p := d.fn.Load(); p != nil {
			return *p
		}
		return d.variantAt(int(d.resolve())).Fn
	}
	return d.variantAt(d.Index()).Fn
}

func (d *Dispatcher[F]) variantAt(i int) registry.Variant[F] {
	if i < FirstTargetIndex || i-FirstTargetIndex >= len(d.entries) {
		return d.def
	}
	return d.entries[i-FirstTargetIndex].Variant
}

// Variant returns the variant behind a selector. Out-of-range selectors
// map to the default.
func (d *Dispatcher[F]) Variant(index int) registry.Variant[F] {
	return d.variantAt(index)
}

// Selected describes the variant calls are routed to, resolving if needed.
func (d *Dispatcher[F]) Selected() Selection {
	idx := d.Index()
	v := d.variantAt(idx)
	return Selection{
		Index:    idx,
		Name:     v.Name,
		Target:   v.Target,
		Strategy: d.strategy,
		Unsafe:   v.Unsafe,
	}
}

// Current returns the target the dispatcher selected, or nil when the
// default variant was selected. It is the target context a selected variant
// hands to callees through For.
func (d *Dispatcher[F]) Current() *target.Target {
	return d.Selected().Target
}

// Resolved reports whether a selection has been cached.
func (d *Dispatcher[F]) Resolved() bool {
	return d.strategy == StrategyStatic || d.index.Load() != unresolved
}

// Strategy returns the effective strategy.
func (d *Dispatcher[F]) Strategy() Strategy { return d.strategy }

// Signature returns the signature the dispatcher was built for.
func (d *Dispatcher[F]) Signature() Signature { return d.sig }

// Entries returns the registry entries in priority order.
func (d *Dispatcher[F]) Entries() []registry.Entry[F] {
	return append([]registry.Entry[F](nil), d.entries...)
}

// reset returns the dispatcher to the unresolved state. Tests only.
func (d *Dispatcher[F]) reset() {
	d.fn.Store(nil)
	d.index.Store(unresolved)
}
