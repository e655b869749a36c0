package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "brochure",
	Short:         "Remove product photo backgrounds and lay them out for brochures",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (.yaml, .yml or .json); defaults to ~/.config/brochure/config.yaml when present")
	rootCmd.PersistentFlags().String("segmenter", "", "Background removal service URL (overrides config)")
	rootCmd.PersistentFlags().Int("timeout", 0, "Remote fetch timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log pipeline stages")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
