package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/kobzarvs/einview/internal/config"
	"github.com/kobzarvs/einview/internal/logger"
)

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Print the classified terms of every equation in a file",
	Long:  "Prints one line per term as line:col text state color. Lines and columns are 1-based; columns count characters.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer initDebugLogging()()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		settings := config.Normalize(cfg)
		for _, w := range settings.Warnings() {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return scan(cmd.OutOrStdout(), f, settings)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration and its problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer initDebugLogging()()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return printConfig(cmd.OutOrStdout(), cfg)
	},
}

// scan writes the terms found in r. Each line is located, parsed and colored
// on its own, the same way the viewer does it.
func scan(w io.Writer, r io.Reader, settings config.Settings) error {
	opts := settings.Options()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	bw := bufio.NewWriter(w)
	line := 0
	found := 0
	for sc.Scan() {
		line++
		for _, t := range opts.Terms(strings.TrimSuffix(sc.Text(), "\r")) {
			fmt.Fprintf(bw, "%d:%d %s %s %d\n", line, t.Start+1, t.Text, t.State, t.Color)
			found++
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	logger.Debug("scan: done", "lines", line, "terms", found)
	return bw.Flush()
}

func printConfig(w io.Writer, cfg config.Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return err
	}
	settings := config.Normalize(cfg)
	if dir, err := config.ConfigDir(); err == nil {
		fmt.Fprintf(w, "\n# config dir: %s\n", dir)
	}
	fmt.Fprintf(w, "# palette: %d colors\n", len(settings.Palette))
	for _, p := range settings.Locator.Patterns() {
		fmt.Fprintf(w, "# prefix: %s\n", p)
	}
	for _, err := range settings.Warnings() {
		fmt.Fprintf(w, "# warning: %s\n", err)
	}
	return nil
}
