package main

import (
	"fmt"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/23skdu/multiversion/internal/codegen"
	"github.com/23skdu/multiversion/internal/cpu"
	"github.com/23skdu/multiversion/internal/dispatch"
	"github.com/23skdu/multiversion/internal/target"
)

type inspectEntry struct {
	Index    int    `json:"index"`
	Target   string `json:"target"`
	Variant  string `json:"variant"`
	Unsafe   bool   `json:"unsafe,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

type inspectFunction struct {
	Function string         `json:"function"`
	Strategy string         `json:"strategy"`
	Entries  []inspectEntry `json:"entries"`
}

func (a *app) inspectCmd() *cobra.Command {
	var manifest, simulate string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the variants of each manifest function and which one is selected",
		Long: `Inspect builds the dispatchers described by a manifest and reports every
registry entry in priority order. The selected entry is marked with '*'.

--simulate replaces the running CPU with one that supports exactly the
features of the given target, e.g. --simulate x86_64+avx+avx2.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := codegen.Load(manifest)
			if err != nil {
				return err
			}
			opts := []dispatch.Option{dispatch.WithConfig(a.cfg), dispatch.WithLogger(a.logger)}
			if simulate != "" {
				t, err := target.ParseOne(simulate)
				if err != nil {
					return err
				}
				opts = append(opts,
					dispatch.WithDetector(cpu.FromTarget(t)),
					dispatch.WithStaticDetector(cpu.NewSimulated(t.Arch()).CompileTime()),
				)
			} else {
				opts = append(opts, dispatch.WithDetector(cpu.NewRuntime(cpu.WithConfig(a.cfg), cpu.WithLogger(a.logger))))
			}

			reports, err := codegen.Inspect(m, opts...)
			if err != nil {
				return err
			}
			out := make([]inspectFunction, 0, len(reports))
			for _, r := range reports {
				out = append(out, toInspectFunction(r))
			}
			if asJSON {
				return json.NewEncoder(a.out).Encode(out)
			}
			return a.printInspect(out)
		},
	}
	cmd.Flags().StringVarP(&manifest, "file", "f", "multiversion.yaml", "manifest to read")
	cmd.Flags().StringVar(&simulate, "simulate", "", "simulate a CPU with exactly this target's features")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func toInspectFunction(r codegen.Report) inspectFunction {
	f := inspectFunction{Function: r.Function, Strategy: r.Strategy.String()}
	for _, e := range r.Entries {
		f.Entries = append(f.Entries, inspectEntry{
			Index:    e.Index,
			Target:   e.Target.String(),
			Variant:  e.Fn,
			Unsafe:   e.Unsafe,
			Selected: e.Index == r.Selected,
		})
	}
	f.Entries = append(f.Entries, inspectEntry{
		Index:    dispatch.DefaultIndex,
		Target:   "default",
		Variant:  r.Default,
		Selected: r.Selected == dispatch.DefaultIndex,
	})
	return f
}

func (a *app) printInspect(fns []inspectFunction) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, f := range fns {
		fmt.Fprintf(w, "%s\t(%s)\n", f.Function, f.Strategy)
		for _, e := range f.Entries {
			mark := " "
			if e.Selected {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %d\t%s\t%s\n", mark, e.Index, e.Target, e.Variant)
		}
	}
	return w.Flush()
}
