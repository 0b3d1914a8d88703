package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/einview/internal/app"
	"github.com/kobzarvs/einview/internal/config"
	"github.com/kobzarvs/einview/internal/logger"
)

var (
	flagDebug    bool
	flagColoring string
	flagSeed     int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "einview: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "einview [file]",
	Short:         "Terminal viewer that colors einsum equation terms",
	Long:          "einview opens a file in a small terminal editor and colors the index terms of einsum-style equations by their role.",
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(flagDebug); err != nil {
			fmt.Fprintf(os.Stderr, "einview: logging disabled: %s\n", err)
		}
		defer logger.Close()
		return app.New(args, overrides(cmd)).Run()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagColoring, "coloring", "", "coloring policy: semi-hashed|hashed|ordered")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "hash seed for term colors")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
}

// overrides returns the config adjustments requested on the command line, or
// nil when no flag was given.
func overrides(cmd *cobra.Command) func(*config.Config) {
	coloring := cmd.Flags().Changed("coloring")
	seed := cmd.Flags().Changed("seed")
	if !coloring && !seed {
		return nil
	}
	return func(cfg *config.Config) {
		if coloring {
			cfg.Annotate.Coloring = flagColoring
		}
		if seed {
			cfg.Annotate.HashSeed = flagSeed
		}
	}
}

// loadConfig reads the user config and applies command line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if fn := overrides(cmd); fn != nil {
		fn(&cfg)
	}
	return cfg, nil
}

// initDebugLogging enables the log file for batch commands when --debug is
// set.
func initDebugLogging() func() {
	if !flagDebug {
		return func() {}
	}
	if err := logger.Init(true); err != nil {
		fmt.Fprintf(os.Stderr, "einview: logging disabled: %s\n", err)
		return func() {}
	}
	return logger.Close
}
