// Package cmd implements the swfx command-line tool: render, timeline, and
// inspect subcommands driving internal/extractor over a JSON tag-bundle
// fixture (SPEC_FULL.md §4.7).
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/turnforge/swfx/internal/config"
	"github.com/turnforge/swfx/internal/obs"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:          "swfx",
	Short:        "Extract SWF characters and render them to SVG",
	SilenceUsage: true,
	Long: `swfx extracts the character dictionary and display-list timeline from a
parsed SWF tag stream and renders frames to standalone SVG documents.

Examples:
  swfx inspect movie.json
  swfx render movie.json --name=Hero --frame=3
  swfx timeline movie.json --out=./frames`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags(), v)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, fmt.Errorf("swfx: loading configuration: %w", err)
	}
	return cfg, nil
}

func fatalf(format string, args ...any) error {
	obs.Logger().Error(fmt.Sprintf(format, args...))
	return fmt.Errorf(format, args...)
}
