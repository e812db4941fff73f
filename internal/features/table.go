// Package features holds the static feature-implication and CPU baseline
// tables. The data is embedded YAML; nothing here probes hardware.
package features

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed implied.yaml
var impliedYAML []byte

//go:embed cpus.yaml
var cpusYAML []byte

// Table answers implication and baseline queries for every architecture.
// A Table is immutable once built and safe for concurrent use.
type Table struct {
	// arch -> feature -> transitive closure (sorted, excluding the feature)
	closure map[string]map[string][]string
	// arch -> cpu -> expanded baseline (sorted)
	cpus map[string]map[string][]string
}

type cpuSpec struct {
	Inherits string   `yaml:"inherits"`
	Features []string `yaml:"features"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table built from the embedded data.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(impliedYAML, cpusYAML)
		if err != nil {
			panic(fmt.Sprintf("features: embedded tables: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Parse builds a Table from implication and CPU baseline documents.
func Parse(implied, cpus []byte) (*Table, error) {
	var direct map[string]map[string][]string
	if err := yaml.Unmarshal(implied, &direct); err != nil {
		return nil, fmt.Errorf("features: parse implication table: %w", err)
	}
	var specs map[string]map[string]cpuSpec
	if err := yaml.Unmarshal(cpus, &specs); err != nil {
		return nil, fmt.Errorf("features: parse cpu table: %w", err)
	}

	t := &Table{
		closure: make(map[string]map[string][]string, len(direct)),
		cpus:    make(map[string]map[string][]string, len(specs)),
	}
	for arch, graph := range direct {
		c := make(map[string][]string, len(graph))
		for f := range graph {
			c[f] = closureOf(graph, f)
		}
		t.closure[arch] = c
	}

	for arch, byName := range specs {
		resolved := make(map[string][]string, len(byName))
		for name := range byName {
			base, err := resolveCPU(byName, name, map[string]bool{})
			if err != nil {
				return nil, fmt.Errorf("features: cpu %s/%s: %w", arch, name, err)
			}
			resolved[name] = t.Expand(arch, base)
		}
		t.cpus[arch] = resolved
	}
	return t, nil
}

// closureOf walks the implication graph from f. Cycles are tolerated.
func closureOf(graph map[string][]string, f string) []string {
	seen := map[string]bool{f: true}
	stack := append([]string(nil), graph[f]...)
	var out []string
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		stack = append(stack, graph[n]...)
	}
	sort.Strings(out)
	return out
}

func resolveCPU(specs map[string]cpuSpec, name string, visiting map[string]bool) ([]string, error) {
	spec, ok := specs[name]
	if !ok {
		return nil, fmt.Errorf("unknown cpu %q", name)
	}
	if visiting[name] {
		return nil, fmt.Errorf("inheritance cycle through %q", name)
	}
	visiting[name] = true
	out := append([]string(nil), spec.Features...)
	if spec.Inherits != "" {
		parent, err := resolveCPU(specs, spec.Inherits, visiting)
		if err != nil {
			return nil, err
		}
		out = append(out, parent...)
	}
	return out, nil
}

// Implied returns every feature transitively implied by feature on arch,
// not including feature itself.
func (t *Table) Implied(arch, feature string) []string {
	return slices.Clone(t.closure[arch][feature])
}

// Implies reports whether enabling a on arch guarantees b.
func (t *Table) Implies(arch, a, b string) bool {
	if a == b {
		return true
	}
	_, found := slices.BinarySearch(t.closure[arch][a], b)
	return found
}

// Expand returns the sorted union of features and everything they imply.
func (t *Table) Expand(arch string, features []string) []string {
	set := make(map[string]struct{}, len(features))
	for _, f := range features {
		set[f] = struct{}{}
		for _, g := range t.closure[arch][f] {
			set[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// CPU returns the expanded baseline of a named CPU.
func (t *Table) CPU(arch, name string) ([]string, bool) {
	fs, ok := t.cpus[arch][name]
	if !ok {
		return nil, false
	}
	return slices.Clone(fs), true
}

// CPUs lists the CPU names known for arch.
func (t *Table) CPUs(arch string) []string {
	return sortedKeys(t.cpus[arch])
}

// Features lists the feature names known for arch.
func (t *Table) Features(arch string) []string {
	return sortedKeys(t.closure[arch])
}

// Known reports whether feature appears in the table for arch.
func (t *Table) Known(arch, feature string) bool {
	_, ok := t.closure[arch][feature]
	return ok
}

func sortedKeys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
