package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"slices"
	"sort"
	"strings"

	"github.com/23skdu/multiversion/internal/dispatch"
	mverrors "github.com/23skdu/multiversion/internal/errors"
)

// Header starts every generated file.
const Header = "// Code generated by multiversion. DO NOT EDIT."

// Generate validates m and renders it as a gofmt-formatted Go file.
func Generate(m *Manifest) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	byName := make(map[string]*Function, len(m.Functions))
	for i := range m.Functions {
		byName[m.Functions[i].Name] = &m.Functions[i]
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n\n", Header)
	fmt.Fprintf(&buf, "package %s\n\n", m.Package)
	fmt.Fprintf(&buf, "import (\n")
	for _, path := range m.importPaths() {
		fmt.Fprintf(&buf, "\t%q\n", path)
	}
	fmt.Fprintf(&buf, ")\n\n")

	fmt.Fprintf(&buf, "// multiversioned holds the dispatchers of package %s by function name.\n", m.Package)
	fmt.Fprintf(&buf, "var multiversioned = dispatch.NewNamespace(%q)\n\n", m.Package)

	for i := range m.Functions {
		f := &m.Functions[i]
		emitDecls(&buf, f)
		emitWrapper(&buf, f)
		for _, c := range f.Calls {
			emitCall(&buf, f, byName[c])
		}
	}

	fmt.Fprintf(&buf, "func init() {\n")
	for i := range m.Functions {
		emitDispatcher(&buf, &m.Functions[i])
	}
	fmt.Fprintf(&buf, "}\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, mverrors.Wrap(err, mverrors.ErrUnsupportedDispatch, "generate", "generated source does not parse")
	}
	return src, nil
}

func (m *Manifest) importPaths() []string {
	paths := []string{m.Runtime + "/dispatch", m.Runtime + "/registry"}
	for _, p := range m.Imports {
		if !slices.Contains(paths, p) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

func (f *Function) bodyType() string {
	if f.inline() {
		return "dispatch.Inline"
	}
	return lowerFirst(f.Name) + "Func"
}

func emitDecls(buf *bytes.Buffer, f *Function) {
	if !f.inline() {
		fmt.Fprintf(buf, "// %s is the signature shared by the variants of %s.\n", f.bodyType(), f.Name)
		fmt.Fprintf(buf, "type %s = func(%s)%s\n\n", f.bodyType(), f.Params, resultList(f.Results))
	}
	fmt.Fprintf(buf, "var %s *dispatch.Dispatcher[%s]\n\n", f.dispatchV, f.bodyType())
}

func emitWrapper(buf *bytes.Buffer, f *Function) {
	if f.Doc != "" {
		for _, line := range strings.Split(strings.TrimSpace(f.Doc), "\n") {
			fmt.Fprintf(buf, "// %s\n", strings.TrimSpace(line))
		}
	} else {
		fmt.Fprintf(buf, "// %s runs the variant of %s selected for the running CPU.\n", f.Name, f.Name)
	}

	typeParams := ""
	if f.TypeParams != "" {
		typeParams = "[" + f.TypeParams + "]"
	}
	results := resultList(f.Results)
	if f.Async {
		results = " <-chan " + f.Results
	}
	fmt.Fprintf(buf, "func %s%s(%s)%s {\n", f.Name, typeParams, f.Params, results)

	ret := ""
	if f.sig.results > 0 {
		ret = "return "
	}
	switch {
	case !f.inline():
		fmt.Fprintf(buf, "\t%s%s.Func()(%s)\n", ret, f.dispatchV, f.forward())
	case f.Async:
		fmt.Fprintf(buf, "\treturn dispatch.Async(%s, func(index int) %s {\n", f.dispatchV, f.Results)
		emitSwitch(buf, f, "index", "return ")
		fmt.Fprintf(buf, "\t})\n")
	default:
		emitSwitch(buf, f, f.dispatchV+".Index()", ret)
	}
	fmt.Fprintf(buf, "}\n\n")
}

// emitSwitch writes one arm per declared variant. Targets expanded from one
// alternation share an arm.
func emitSwitch(buf *bytes.Buffer, f *Function, selector, ret string) {
	typeArgs := ""
	if len(f.sig.typeNames) > 0 {
		typeArgs = "[" + strings.Join(f.sig.typeNames, ", ") + "]"
	}
	fmt.Fprintf(buf, "\tswitch %s {\n", selector)
	for i, v := range f.Variants {
		labels := make([]string, len(f.arms[i]))
		for j, idx := range f.arms[i] {
			labels[j] = indexLabel(idx)
		}
		fmt.Fprintf(buf, "\tcase %s:\n", strings.Join(labels, ", "))
		fmt.Fprintf(buf, "\t\t%s%s%s(%s)\n", ret, v.Fn, typeArgs, f.forward())
	}
	fmt.Fprintf(buf, "\tdefault:\n")
	fmt.Fprintf(buf, "\t\t%s%s%s(%s)\n", ret, f.Default, typeArgs, f.forward())
	fmt.Fprintf(buf, "\t}\n")
}

// emitCall writes the helper a variant of caller uses to reach callee on
// the target caller was selected for.
func emitCall(buf *bytes.Buffer, caller, callee *Function) {
	name := lowerFirst(caller.Name) + "Calls" + upperFirst(callee.Name)
	if callee.inline() {
		fmt.Fprintf(buf, "// %s returns the %s selector matching the target %s runs on.\n", name, callee.Name, caller.Name)
		fmt.Fprintf(buf, "func %s() int {\n", name)
		fmt.Fprintf(buf, "\treturn %s.IndexFor(%s.Current())\n", callee.dispatchV, caller.dispatchV)
	} else {
		fmt.Fprintf(buf, "// %s returns the %s variant matching the target %s runs on.\n", name, callee.Name, caller.Name)
		fmt.Fprintf(buf, "func %s() %s {\n", name, callee.bodyType())
		fmt.Fprintf(buf, "\treturn %s.For(%s.Current())\n", callee.dispatchV, caller.dispatchV)
	}
	fmt.Fprintf(buf, "}\n\n")
}

func emitDispatcher(buf *bytes.Buffer, f *Function) {
	body := f.bodyType()
	fmt.Fprintf(buf, "\t%s = dispatch.MustNew(\n", f.dispatchV)
	fmt.Fprintf(buf, "\t\t%s,\n", signatureLiteral(f.signature()))
	fmt.Fprintf(buf, "\t\tregistry.MustBuild(%q,\n", f.Name)
	fmt.Fprintf(buf, "\t\t\t%s,\n", variantLiteral(body, f.Default, false, !f.inline()))
	for _, v := range f.Variants {
		fmt.Fprintf(buf, "\t\t\tregistry.Decl[%s]{Target: %q, Variant: %s},\n",
			body, v.Target, variantLiteral(body, v.Fn, v.Unsafe, !f.inline()))
	}
	fmt.Fprintf(buf, "\t\t),\n")
	if f.strategy != dispatch.StrategyDefault {
		fmt.Fprintf(buf, "\t\tdispatch.WithStrategy(%s),\n", strategyConst(f.strategy))
	}
	fmt.Fprintf(buf, "\t)\n")
	fmt.Fprintf(buf, "\tdispatch.MustRegister(multiversioned, %s)\n", f.dispatchV)
}

func signatureLiteral(sig dispatch.Signature) string {
	fields := []string{fmt.Sprintf("Name: %q", sig.Name)}
	if sig.Generic {
		fields = append(fields, "Generic: true")
	}
	if sig.Async {
		fields = append(fields, "Async: true")
	}
	if sig.OpaqueReturn {
		fields = append(fields, "OpaqueReturn: true")
	}
	return "dispatch.Signature{" + strings.Join(fields, ", ") + "}"
}

func variantLiteral(body, fn string, unsafe, withFn bool) string {
	fields := []string{fmt.Sprintf("Name: %q", fn)}
	if withFn {
		fields = append(fields, "Fn: "+fn)
	}
	if unsafe {
		fields = append(fields, "Unsafe: true")
	}
	return "registry.Variant[" + body + "]{" + strings.Join(fields, ", ") + "}"
}

func strategyConst(s dispatch.Strategy) string {
	name := s.String()
	return "dispatch.Strategy" + strings.ToUpper(name[:1]) + name[1:]
}

func indexLabel(idx int) string {
	if idx == dispatch.FirstTargetIndex {
		return "dispatch.FirstTargetIndex"
	}
	return fmt.Sprintf("dispatch.FirstTargetIndex + %d", idx-dispatch.FirstTargetIndex)
}

func (f *Function) forward() string {
	args := strings.Join(f.sig.args, ", ")
	if f.sig.variadic {
		args += "..."
	}
	return args
}

func resultList(results string) string {
	switch {
	case results == "":
		return ""
	case strings.ContainsAny(results, ", "):
		return " (" + results + ")"
	}
	return " " + results
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
