// Package codegen turns a multiversion manifest into Go source: one variant
// registry, one dispatcher and one wrapper per declared function.
package codegen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/23skdu/multiversion/internal/dispatch"
	mverrors "github.com/23skdu/multiversion/internal/errors"
	"github.com/23skdu/multiversion/internal/target"
)

// DefaultRuntime is the import base for the dispatch and registry packages.
const DefaultRuntime = "github.com/23skdu/multiversion/internal"

// Manifest declares the multiversioned functions of one package.
type Manifest struct {
	Package string `yaml:"package"`
	// Runtime overrides the import base of the dispatch and registry
	// packages.
	Runtime string `yaml:"runtime,omitempty"`
	// Imports are the packages the declared signatures refer to.
	Imports   []string   `yaml:"imports,omitempty"`
	Functions []Function `yaml:"functions"`
}

// Function declares one multiversioned function.
type Function struct {
	Name       string    `yaml:"name"`
	TypeParams string    `yaml:"type_params,omitempty"`
	Params     string    `yaml:"params,omitempty"`
	Results    string    `yaml:"results,omitempty"`
	Async      bool      `yaml:"async,omitempty"`
	Opaque     bool      `yaml:"opaque,omitempty"`
	Strategy   string    `yaml:"strategy,omitempty"`
	Default    string    `yaml:"default"`
	Variants   []Variant `yaml:"variants"`
	Calls      []string  `yaml:"calls,omitempty"`
	Doc        string    `yaml:"doc,omitempty"`

	sig       signature
	strategy  dispatch.Strategy
	arms      [][]int
	dispatchV string
}

// Variant binds a target string to the function implementing it.
type Variant struct {
	Target string `yaml:"target"`
	Fn     string `yaml:"fn"`
	Unsafe bool   `yaml:"unsafe,omitempty"`
}

type signature struct {
	typeNames []string
	args      []string
	variadic  bool
	results   int
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mverrors.Wrap(err, "", "load_manifest", "read manifest").
			WithContext("path", path)
	}
	return Parse(data)
}

// Parse decodes and validates a manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, mverrors.Wrap(err, "", "parse_manifest", "decode manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks every function of the manifest and reports all problems
// together. Generation refuses a manifest that does not validate.
func (m *Manifest) Validate() error {
	var errs []error
	if !token.IsIdentifier(m.Package) {
		errs = append(errs, invalid(mverrors.ErrUnsupportedDispatch, "", "package %q is not an identifier", m.Package))
	}
	if m.Runtime == "" {
		m.Runtime = DefaultRuntime
	}
	if len(m.Functions) == 0 {
		errs = append(errs, invalid(mverrors.ErrUnknownVariant, "", "no functions declared"))
	}

	seen := make(map[string]bool, len(m.Functions))
	for i := range m.Functions {
		f := &m.Functions[i]
		if seen[f.Name] {
			errs = append(errs, invalid(mverrors.ErrAmbiguousTarget, f.Name, "function declared twice"))
			continue
		}
		seen[f.Name] = true
		if err := f.validate(); err != nil {
			errs = append(errs, err)
		}
	}

	byName := make(map[string]*Function, len(m.Functions))
	for i := range m.Functions {
		byName[m.Functions[i].Name] = &m.Functions[i]
	}
	for _, f := range m.Functions {
		for _, c := range f.Calls {
			callee, ok := byName[c]
			switch {
			case !ok:
				errs = append(errs, invalid(mverrors.ErrAmbiguousTarget, f.Name, "calls %q, which is not multiversioned", c))
			case callee.Name == f.Name:
				errs = append(errs, invalid(mverrors.ErrAmbiguousTarget, f.Name, "calls itself"))
			}
		}
	}
	return errors.Join(errs...)
}

func (f *Function) validate() error {
	f.arms = nil
	if !token.IsIdentifier(f.Name) || token.IsKeyword(f.Name) {
		return invalid(mverrors.ErrUnsupportedDispatch, f.Name, "function name is not an identifier")
	}
	if !token.IsIdentifier(f.Default) {
		return invalid(mverrors.ErrMissingDefault, f.Name, "no default variant")
	}

	sig, err := parseSignature(f.TypeParams, f.Params, f.Results)
	if err != nil {
		return mverrors.Wrap(err, mverrors.ErrUnsupportedDispatch, "validate_manifest", "bad signature").
			WithContext("function", f.Name)
	}
	f.sig = sig
	if f.Async && sig.results != 1 {
		return invalid(mverrors.ErrUnsupportedDispatch, f.Name, "async functions need exactly one result")
	}
	if f.Opaque && sig.results != 1 {
		return invalid(mverrors.ErrUnsupportedDispatch, f.Name, "opaque functions need exactly one result")
	}

	f.strategy, err = dispatch.ParseStrategy(f.Strategy)
	if err != nil {
		return mverrors.Wrap(err, "", "validate_manifest", "bad strategy").WithContext("function", f.Name)
	}
	if f.strategy == dispatch.StrategyIndirect && !f.signature().IndirectCapable() {
		return invalid(mverrors.ErrUnsupportedDispatch, f.Name,
			"indirect dispatch needs a non-generic synchronous function with a concrete result")
	}

	var all []target.Target
	index := dispatch.FirstTargetIndex
	for _, v := range f.Variants {
		if !token.IsIdentifier(v.Fn) {
			return invalid(mverrors.ErrUnknownVariant, f.Name, "variant for %q has no function", v.Target)
		}
		ts, err := target.Parse(v.Target)
		if err != nil {
			return mverrors.Wrap(err, "", "validate_manifest", "bad target").
				WithContext("function", f.Name).
				WithContext("target", v.Target)
		}
		arm := make([]int, 0, len(ts))
		for _, t := range ts {
			for _, prev := range all {
				if prev.Equal(t) {
					return invalid(mverrors.ErrDuplicateTarget, f.Name, "target %s declared twice", t)
				}
			}
			all = append(all, t)
			arm = append(arm, index)
			index++
		}
		f.arms = append(f.arms, arm)
	}
	f.dispatchV = lowerFirst(f.Name) + "Dispatch"
	return nil
}

func (f *Function) signature() dispatch.Signature {
	return dispatch.Signature{
		Name:         f.Name,
		Generic:      len(f.sig.typeNames) > 0,
		Async:        f.Async,
		OpaqueReturn: f.Opaque,
	}
}

// inline reports whether the wrapper switches on the selector instead of
// calling a stored function value.
func (f *Function) inline() bool { return !f.signature().IndirectCapable() }

// parseSignature checks the Go fragments of a declaration and extracts the
// names the wrapper needs to forward its arguments.
func parseSignature(typeParams, params, results string) (signature, error) {
	var src strings.Builder
	src.WriteString("package p\nfunc _")
	if typeParams != "" {
		src.WriteString("[" + typeParams + "]")
	}
	src.WriteString("(" + params + ")")
	if results != "" {
		src.WriteString(" (" + results + ")")
	}
	src.WriteString(" {}\n")

	file, err := parser.ParseFile(token.NewFileSet(), "", src.String(), parser.SkipObjectResolution)
	if err != nil {
		return signature{}, err
	}
	fn := file.Decls[0].(*ast.FuncDecl)

	var sig signature
	if tp := fn.Type.TypeParams; tp != nil {
		for _, field := range tp.List {
			for _, n := range field.Names {
				sig.typeNames = append(sig.typeNames, n.Name)
			}
		}
	}
	for _, field := range fn.Type.Params.List {
		if len(field.Names) == 0 {
			return signature{}, fmt.Errorf("parameter of type %s has no name", types.ExprString(field.Type))
		}
		for _, n := range field.Names {
			if n.Name == "_" {
				return signature{}, fmt.Errorf("blank parameter cannot be forwarded")
			}
			sig.args = append(sig.args, n.Name)
		}
		if _, ok := field.Type.(*ast.Ellipsis); ok {
			sig.variadic = true
		}
	}
	if r := fn.Type.Results; r != nil {
		for _, field := range r.List {
			if len(field.Names) == 0 {
				sig.results++
			}
			sig.results += len(field.Names)
		}
	}
	return sig, nil
}

func invalid(kind mverrors.Kind, function, format string, args ...any) error {
	err := mverrors.Newf(kind, "validate_manifest", format, args...)
	if function != "" {
		return err.WithContext("function", function)
	}
	return err
}

func lowerFirst(s string) string {
	r := []rune(s)
	i := 0
	for i < len(r) && unicode.IsUpper(r[i]) {
		i++
	}
	switch {
	case i == 0:
	case i == 1 || i == len(r):
		for j := 0; j < i; j++ {
			r[j] = unicode.ToLower(r[j])
		}
	default:
		// Keep the last capital of an initialism as the start of the next word.
		for j := 0; j < i-1; j++ {
			r[j] = unicode.ToLower(r[j])
		}
	}
	return string(r)
}
