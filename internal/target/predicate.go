package target

import (
	"reflect"
	"strings"
)

// Predicate is the detection condition for a descriptor: the architecture
// must match and every feature must be present.
type Predicate struct {
	Arch     Arch
	Features []string
}

// Trivial reports whether only the architecture has to match.
func (p Predicate) Trivial() bool { return len(p.Features) == 0 }

func (p Predicate) String() string {
	var b strings.Builder
	b.WriteString("arch == ")
	b.WriteString(p.Arch.String())
	for _, f := range p.Features {
		b.WriteString(" && ")
		b.WriteString(f)
	}
	return b.String()
}

// Eval evaluates the predicate on arch. has is not consulted when the
// architecture differs, and evaluation stops at the first absent feature.
func (p Predicate) Eval(arch Arch, has func(feature string) bool) bool {
	if arch != p.Arch {
		return false
	}
	for _, f := range p.Features {
		if !has(f) {
			return false
		}
	}
	return true
}

// Lane is an element type that can be packed into a SIMD register.
type Lane interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// SuggestedWidth returns a suggested number of T elements per vector for code
// compiled for t, or 0 when the descriptor names no vector extension. It only
// looks at the descriptor's own features; use a /cpu baseline to include the
// architecture's guaranteed features.
func SuggestedWidth[T Lane](t Target) int {
	typ := reflect.TypeFor[T]()
	size := int(typ.Size())
	isFloat := typ.Kind() == reflect.Float32 || typ.Kind() == reflect.Float64
	isF64 := typ.Kind() == reflect.Float64
	v128, v256, v512 := 16/size, 32/size, 64/size

	anyPrefix := func(prefix, except string) bool {
		for _, f := range t.features {
			if strings.HasPrefix(f, prefix) && f != except {
				return true
			}
		}
		return false
	}

	switch t.arch {
	case X86, X86_64:
		switch {
		case anyPrefix("avx512", ""):
			return v512
		case t.Has("avx2"):
			return v256
		case isFloat && (t.Has("avx") || t.Has("fma")):
			return v256
		case anyPrefix("sse", "sse"):
			return v128
		case typ.Kind() == reflect.Float32 && t.Has("sse"):
			return v128
		}
	case ARM, AArch64:
		if t.Has("neon") && !(isF64 && t.arch == ARM) {
			return v128
		}
	case MIPS, MIPS64:
		if t.Has("msa") {
			return v128
		}
	case PowerPC, PowerPC64:
		if t.Has("vsx") || (!isF64 && t.Has("altivec")) {
			return v128
		}
	case Wasm32:
		if t.Has("simd128") {
			return v128
		}
	}
	return 0
}
