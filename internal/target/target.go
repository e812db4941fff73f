// Package target models target descriptors: an architecture plus the set of
// instruction-set features a function variant may assume.
//
// Descriptors are written as "arch[/cpu]{+feature}*" or, to share one feature
// list across several architectures, "[arch1|arch2]{+feature}*":
//
//	x86_64+avx2+fma
//	x86_64/x86-64-v3+avx512f
//	[x86|x86_64]+sse4.2
//
// A /cpu suffix merges the named CPU's baseline into the listed features.
package target

import (
	"slices"
	"sort"
	"strings"

	mverrors "github.com/23skdu/multiversion/internal/errors"
	"github.com/23skdu/multiversion/internal/features"
)

// Target is an immutable descriptor. The zero value is not valid.
type Target struct {
	arch     Arch
	cpu      string
	features []string
}

// New builds a descriptor from structured input.
func New(arch Arch, feats ...string) (Target, error) {
	if arch == ArchUnknown || int(arch) >= len(archNames) {
		return Target{}, mverrors.NewValidationError(mverrors.ErrInvalidArchitecture, "new_target", "unknown architecture")
	}
	for _, f := range feats {
		if err := checkFeature(f); err != nil {
			return Target{}, err
		}
	}
	return Target{arch: arch, features: canonical(feats)}, nil
}

// Parse parses a descriptor string. The bracketed alternation form yields one
// Target per listed architecture, in listed order with duplicates removed.
func Parse(text string) ([]Target, error) {
	return ParseWith(features.Default(), text)
}

// ParseWith parses text resolving /cpu baselines through tbl.
func ParseWith(tbl *features.Table, text string) ([]Target, error) {
	arches, rest, err := splitArches(text)
	if err != nil {
		return nil, err.WithContext("target", text)
	}

	var cpu string
	if strings.HasPrefix(rest, "/") {
		end := strings.IndexByte(rest, '+')
		if end < 0 {
			end = len(rest)
		}
		cpu, rest = rest[1:end], rest[end:]
		if cpu == "" {
			return nil, mverrors.NewValidationError(mverrors.ErrInvalidFeature, "parse_target", "empty cpu name").
				WithContext("target", text)
		}
	}

	var feats []string
	if rest != "" {
		if rest[0] != '+' {
			return nil, mverrors.Newf(mverrors.ErrInvalidArchitecture, "parse_target",
				"malformed architecture specifier before %q", rest).WithContext("target", text)
		}
		for _, tok := range strings.Split(rest[1:], "+") {
			if err := checkFeature(tok); err != nil {
				return nil, err.WithContext("target", text)
			}
			feats = append(feats, tok)
		}
	}

	out := make([]Target, 0, len(arches))
	for _, a := range arches {
		fs := feats
		if cpu != "" {
			base, ok := tbl.CPU(a.String(), cpu)
			if !ok {
				return nil, mverrors.Newf(mverrors.ErrInvalidFeature, "parse_target",
					"unknown cpu %q for %s", cpu, a).WithContext("target", text)
			}
			fs = append(slices.Clone(feats), base...)
		}
		out = append(out, Target{arch: a, cpu: cpu, features: canonical(fs)})
	}
	return out, nil
}

// ParseOne parses text that must describe exactly one descriptor.
func ParseOne(text string) (Target, error) {
	ts, err := Parse(text)
	if err != nil {
		return Target{}, err
	}
	if len(ts) != 1 {
		return Target{}, mverrors.Newf(mverrors.ErrInvalidArchitecture, "parse_target",
			"%q names %d architectures, want 1", text, len(ts))
	}
	return ts[0], nil
}

// MustParse is Parse for package-level tables; it panics on error.
func MustParse(text string) []Target {
	ts, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return ts
}

func splitArches(text string) ([]Arch, string, *mverrors.StructuredError) {
	if strings.HasPrefix(text, "[") {
		end := strings.IndexByte(text, ']')
		if end < 0 {
			return nil, "", mverrors.NewValidationError(mverrors.ErrInvalidArchitecture, "parse_target", "unclosed architecture list")
		}
		var arches []Arch
		for _, tok := range strings.Split(text[1:end], "|") {
			a, err := archToken(tok)
			if err != nil {
				return nil, "", err
			}
			if !slices.Contains(arches, a) {
				arches = append(arches, a)
			}
		}
		return arches, text[end+1:], nil
	}

	end := strings.IndexAny(text, "+/")
	if end < 0 {
		end = len(text)
	}
	a, err := archToken(text[:end])
	if err != nil {
		return nil, "", err
	}
	return []Arch{a}, text[end:], nil
}

func archToken(tok string) (Arch, *mverrors.StructuredError) {
	if tok == "" {
		return ArchUnknown, mverrors.NewValidationError(mverrors.ErrInvalidArchitecture, "parse_target", "architecture cannot be empty")
	}
	for _, r := range tok {
		if !isWord(r) {
			return ArchUnknown, mverrors.Newf(mverrors.ErrInvalidArchitecture, "parse_target", "invalid architecture %q", tok)
		}
	}
	a, err := ParseArch(tok)
	if err != nil {
		return ArchUnknown, err.(*mverrors.StructuredError)
	}
	return a, nil
}

func checkFeature(f string) *mverrors.StructuredError {
	if f == "" {
		return mverrors.NewValidationError(mverrors.ErrEmptyFeatureToken, "parse_target", "feature cannot be empty")
	}
	for _, r := range f {
		if !isWord(r) && r != '.' && r != '-' {
			return mverrors.Newf(mverrors.ErrInvalidFeature, "parse_target", "invalid feature %q", f)
		}
	}
	return nil
}

func isWord(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func canonical(fs []string) []string {
	if len(fs) == 0 {
		return nil
	}
	out := slices.Clone(fs)
	sort.Strings(out)
	return slices.Compact(out)
}

// Arch returns the descriptor's architecture.
func (t Target) Arch() Arch { return t.arch }

// CPU returns the /cpu name the descriptor was written with, if any.
func (t Target) CPU() string { return t.cpu }

// Features returns the canonical (sorted, unique) feature list.
func (t Target) Features() []string { return slices.Clone(t.features) }

// HasFeatures reports whether the descriptor requires anything beyond the
// architecture itself.
func (t Target) HasFeatures() bool { return len(t.features) > 0 }

// Has reports whether feature is part of the descriptor.
func (t Target) Has(feature string) bool {
	_, ok := slices.BinarySearch(t.features, feature)
	return ok
}

// Equal compares architecture and canonical features.
func (t Target) Equal(o Target) bool {
	return t.arch == o.arch && slices.Equal(t.features, o.features)
}

// Contains reports whether t requires everything o requires on the same arch.
func (t Target) Contains(o Target) bool {
	if t.arch != o.arch {
		return false
	}
	for _, f := range o.features {
		if !t.Has(f) {
			return false
		}
	}
	return true
}

// String renders the canonical form, which parses back to an equal Target.
func (t Target) String() string {
	if len(t.features) == 0 {
		return t.arch.String()
	}
	return t.arch.String() + "+" + strings.Join(t.features, "+")
}

// Suffix renders the features as a Go identifier fragment, e.g. "AVX_AVX2".
func (t Target) Suffix() string {
	if len(t.features) == 0 {
		return "Baseline"
	}
	parts := make([]string, len(t.features))
	for i, f := range t.features {
		f = strings.NewReplacer(".", "", "-", "").Replace(f)
		parts[i] = strings.ToUpper(f)
	}
	return strings.Join(parts, "_")
}

// Predicate returns the detection predicate for the descriptor.
func (t Target) Predicate() Predicate {
	return Predicate{Arch: t.arch, Features: slices.Clone(t.features)}
}
