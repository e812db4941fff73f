package main

import (
	"github.com/spf13/cobra"

	"github.com/23skdu/multiversion/internal/codegen"
)

func (a *app) genCmd() *cobra.Command {
	var manifest, output string

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate dispatch code from a manifest",
		Long: `Generate writes one registry, dispatcher and wrapper per function in the
manifest. Every target, default and strategy is checked first; on any error
nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := codegen.Load(manifest)
			if err != nil {
				return err
			}
			src, err := codegen.Generate(m)
			if err != nil {
				return err
			}
			if output == "-" {
				_, err = a.out.Write(src)
				return err
			}
			if err := writeFile(output, src); err != nil {
				return err
			}
			a.logger.Info().
				Str("manifest", manifest).
				Str("output", output).
				Int("functions", len(m.Functions)).
				Msg("generated dispatch code")
			return nil
		},
	}
	cmd.Flags().StringVarP(&manifest, "file", "f", "multiversion.yaml", "manifest to read")
	cmd.Flags().StringVarP(&output, "output", "o", "multiversion_gen.go", "file to write, - for stdout")
	return cmd
}
