package cpu

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/23skdu/multiversion/internal/config"
	"github.com/23skdu/multiversion/internal/features"
	"github.com/23skdu/multiversion/internal/logging"
	"github.com/23skdu/multiversion/internal/target"
)

// Runtime probes the running CPU through the platform's feature flags.
type Runtime struct {
	eval         evaluator
	probes       map[string]func() bool
	forceGeneric bool
	disabled     map[string]bool
	logger       zerolog.Logger
}

// Option configures a Runtime detector.
type Option func(*Runtime)

// WithForceGeneric makes every probe report absent.
func WithForceGeneric() Option {
	return func(r *Runtime) { r.forceGeneric = true }
}

// WithDisabled reports the named features absent regardless of the CPU.
func WithDisabled(feats ...string) Option {
	return func(r *Runtime) {
		for _, f := range feats {
			r.disabled[f] = true
		}
	}
}

// WithTable replaces the implication table used to skip redundant probes.
func WithTable(t *features.Table) Option {
	return func(r *Runtime) { r.eval.table = t }
}

// WithLogger sets the logger used for probe diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithConfig applies the process configuration.
func WithConfig(cfg config.Config) Option {
	return func(r *Runtime) {
		if cfg.ForceGeneric {
			r.forceGeneric = true
		}
		for _, f := range cfg.Disabled() {
			r.disabled[f] = true
		}
	}
}

// NewRuntime returns a detector for the architecture this binary runs on.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		probes:   platformProbes(),
		disabled: make(map[string]bool),
		logger:   zerolog.Nop(),
	}
	r.eval = evaluator{arch: target.Current(), table: features.Default(), probe: r.Has, blocked: r.blocked}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runtime) Arch() target.Arch { return r.eval.arch }

// Runtime is false on platforms without a probing facility.
func (r *Runtime) Runtime() bool { return len(r.probes) > 0 }

func (r *Runtime) Detect(t target.Target) bool {
	ok := r.eval.detect(t)
	r.logger.Trace().
		Str("target", t.String()).
		Bool("detected", ok).
		Msg("target detection")
	return ok
}

// Has probes one feature. Unknown feature names are absent.
func (r *Runtime) Has(feature string) bool {
	if r.blocked(feature) {
		return false
	}
	probe, ok := r.probes[feature]
	return ok && probe()
}

func (r *Runtime) blocked(feature string) bool {
	return r.forceGeneric || r.disabled[feature]
}

// Known lists the feature names this platform can probe.
func (r *Runtime) Known() []string {
	out := make([]string, 0, len(r.probes))
	for f := range r.probes {
		out = append(out, f)
	}
	return out
}

var (
	defaultOnce     sync.Once
	defaultDetector *Runtime
)

// Default returns the process-wide runtime detector, configured once from
// MULTIVERSION_* environment variables. An invalid environment is logged
// and ignored.
func Default() *Runtime {
	defaultOnce.Do(func() {
		cfg, err := config.Process()
		logger, lerr := logging.NewLogger(logging.Config{Format: jsonOrConsole(cfg.LogFormat), Level: cfg.LogLevel})
		if lerr != nil {
			logger = logging.DiscardLogger()
		}
		if err != nil {
			logger.Warn().Err(err).Msg("ignoring invalid multiversion environment")
		}
		defaultDetector = NewRuntime(WithConfig(cfg), WithLogger(logger))
	})
	return defaultDetector
}

func jsonOrConsole(format string) string {
	if format == "console" {
		return "text"
	}
	return "json"
}

// Detected reports whether all features are available on the running CPU,
// the way the process-wide detector sees them.
func Detected(feats ...string) bool {
	t, err := target.New(target.Current(), feats...)
	if err != nil {
		return false
	}
	return Default().Detect(t)
}
