package dispatch

import (
	"strings"

	mverrors "github.com/23skdu/multiversion/internal/errors"
)

// Strategy is the mechanism that routes a call to the selected variant.
type Strategy uint8

const (
	// StrategyDefault lets the dispatcher pick: Static when nothing can be
	// probed or the answer is already known at compile time, otherwise
	// Indirect when the signature allows it, otherwise Direct.
	StrategyDefault Strategy = iota
	// StrategyStatic selects from the features the binary was compiled to
	// assume. No runtime probing, no cache.
	StrategyStatic
	// StrategyDirect caches a small integer selector and switches on it.
	// Works for every signature.
	StrategyDirect
	// StrategyIndirect caches the selected function value and calls through
	// it. Not available for generic, async or opaque-return signatures.
	StrategyIndirect
)

func (s Strategy) String() string {
	switch s {
	case StrategyDefault:
		return "default"
	case StrategyStatic:
		return "static"
	case StrategyDirect:
		return "direct"
	case StrategyIndirect:
		return "indirect"
	default:
		return "unknown"
	}
}

// ParseStrategy resolves a strategy name. The empty string is StrategyDefault.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return StrategyDefault, nil
	case "static":
		return StrategyStatic, nil
	case "direct":
		return StrategyDirect, nil
	case "indirect":
		return StrategyIndirect, nil
	}
	return StrategyDefault, mverrors.Newf(mverrors.ErrUnsupportedDispatch, "parse_strategy", "unknown strategy %q", name)
}

// Signature describes the calling contract of a multiversioned function as
// far as dispatch is concerned.
type Signature struct {
	Name string
	// Generic functions have type parameters.
	Generic bool
	// Async functions deliver their result on a channel.
	Async bool
	// OpaqueReturn functions return an interface whose dynamic type depends
	// on the variant.
	OpaqueReturn bool
}

// IndirectCapable reports whether one stored function value can stand for
// every call of the function.
func (s Signature) IndirectCapable() bool {
	return !s.Generic && !s.Async && !s.OpaqueReturn
}

// Inline is the variant body type for functions dispatched through a switch
// at the call site (generic, async and opaque-return functions). The
// registry only carries targets and names; the bodies live in the switch.
type Inline struct{}
