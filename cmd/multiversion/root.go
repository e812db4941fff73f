package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/23skdu/multiversion/internal/config"
	"github.com/23skdu/multiversion/internal/logging"
)

type app struct {
	out     io.Writer
	logOut  io.Writer
	envFile string
	cfg     config.Config
	logger  zerolog.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, logOut: os.Stderr, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "multiversion",
		Short: "Generate and inspect multiversioned functions",
		Long: `multiversion turns a YAML manifest of function variants into Go dispatch
code, and shows which variant the running (or a simulated) CPU would select.

Settings are read from MULTIVERSION_* environment variables, after loading
the dotenv file given by --env-file when it exists.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.SetOut(out)

	root.AddCommand(a.genCmd(), a.inspectCmd(), a.targetsCmd(), a.detectCmd())
	return root
}

func (a *app) setup() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.NewLogger(logging.Config{Format: cfg.LogFormat, Level: cfg.LogLevel, Output: a.logOut})
	if err != nil {
		return err
	}
	a.logger = logger.With().Str("component", "cli").Logger()
	return nil
}
