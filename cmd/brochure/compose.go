package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ysfklc/DigitalBrochure-sub001/pkg/source"
)

var composeCmd = &cobra.Command{
	Use:   "compose [source]",
	Short: "Remove the background and apply a layout preset",
	Long: `Remove the background of a local image or http(s) URL and compose it
with one of the layout presets. Run "brochure presets" to list them.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().StringP("preset", "p", "clean_center", "Layout preset")
	composeCmd.Flags().StringP("output", "o", "", "Output directory (defaults to config output_dir)")
	composeCmd.Flags().Bool("describe", false, "Caption the result with the configured vision model")
	rootCmd.AddCommand(composeCmd)
}

func runCompose(cmd *cobra.Command, args []string) error {
	src := args[0]
	presetName, _ := cmd.Flags().GetString("preset")
	outDir, _ := cmd.Flags().GetString("output")
	withDescription, _ := cmd.Flags().GetBool("describe")

	cfg, p, err := setup(cmd)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.Output.OutputDir
	}

	var path string
	if source.IsRemote(src) {
		path, err = p.ApplyPresetFromURL(cmd.Context(), src, presetName, outDir)
	} else {
		path, err = p.ProcessImage(cmd.Context(), src, outDir, presetName, false)
	}
	if err != nil {
		return fmt.Errorf("compose %s: %w", src, err)
	}
	fmt.Println(path)

	if withDescription {
		return printDescription(cmd, p, path)
	}
	return nil
}
