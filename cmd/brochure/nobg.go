package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var nobgCmd = &cobra.Command{
	Use:   "nobg [source]",
	Short: "Remove the background only",
	Args:  cobra.ExactArgs(1),
	RunE:  runNobg,
}

func init() {
	nobgCmd.Flags().StringP("output", "o", "", "Output directory (defaults to config output_dir)")
	rootCmd.AddCommand(nobgCmd)
}

func runNobg(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("output")

	cfg, p, err := setup(cmd)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.Output.OutputDir
	}

	path, err := p.RemoveBackgroundFromURL(cmd.Context(), args[0], outDir)
	if err != nil {
		return fmt.Errorf("remove background %s: %w", args[0], err)
	}
	fmt.Println(path)
	return nil
}
