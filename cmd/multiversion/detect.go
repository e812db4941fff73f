package main

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/23skdu/multiversion/internal/cpu"
)

type detectReport struct {
	Arch          string   `json:"arch"`
	Brand         string   `json:"brand,omitempty"`
	Vendor        string   `json:"vendor,omitempty"`
	PhysicalCores int      `json:"physical_cores"`
	LogicalCores  int      `json:"logical_cores"`
	X64Level      int      `json:"x64_level,omitempty"`
	Probing       bool     `json:"probing"`
	Baseline      string   `json:"baseline,omitempty"`
	Assumed       []string `json:"assumed,omitempty"`
	Features      []string `json:"features"`
}

func (a *app) detectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Probe the running CPU",
		Long: `Detect reports the CPU model and every feature the platform probes find,
after MULTIVERSION_FORCE_GENERIC and MULTIVERSION_DISABLED_FEATURES are
applied. Assumed features are those the binary was compiled to rely on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := cpu.NewRuntime(cpu.WithConfig(a.cfg), cpu.WithLogger(a.logger))
			info := cpu.Describe(rt)
			_, assumed := cpu.NewStatic().Baseline()

			r := detectReport{
				Arch:          info.Arch.String(),
				Brand:         info.Brand,
				Vendor:        info.Vendor,
				PhysicalCores: info.PhysicalCores,
				LogicalCores:  info.LogicalCores,
				X64Level:      info.X64Level,
				Probing:       rt.Runtime(),
				Baseline:      info.BaselineCPU,
				Assumed:       assumed,
				Features:      info.Features,
			}
			if r.Features == nil {
				r.Features = []string{}
			}
			if asJSON {
				return json.NewEncoder(a.out).Encode(r)
			}

			fmt.Fprintf(a.out, "arch:      %s\n", r.Arch)
			if r.Brand != "" {
				fmt.Fprintf(a.out, "cpu:       %s (%s)\n", r.Brand, r.Vendor)
			}
			fmt.Fprintf(a.out, "cores:     %d physical / %d logical\n", r.PhysicalCores, r.LogicalCores)
			if r.X64Level > 0 {
				fmt.Fprintf(a.out, "level:     x86-64-v%d\n", r.X64Level)
			}
			if r.Baseline != "" {
				fmt.Fprintf(a.out, "baseline:  %s\n", r.Baseline)
			}
			fmt.Fprintf(a.out, "probing:   %t\n", r.Probing)
			fmt.Fprintf(a.out, "features:  %s\n", strings.Join(r.Features, " "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
