package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/23skdu/multiversion/internal/target"
)

func (a *app) targetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets TARGET...",
		Short: "Parse target strings and print their canonical form and predicate",
		Example: `  multiversion targets "[x86|x86_64]+avx+avx2" aarch64+neon
  multiversion targets x86_64/haswell`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, text := range args {
				ts, err := target.Parse(text)
				if err != nil {
					return err
				}
				for _, t := range ts {
					fmt.Fprintf(w, "%s\t%s\t%s\n", t, t.Suffix(), t.Predicate())
				}
			}
			return w.Flush()
		},
	}
}
