package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ysfklc/DigitalBrochure-sub001/pkg/preset"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List layout presets and their canvas sizes",
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

func init() {
	presetsCmd.Flags().Int("width", 100, "Sample subject width for the canvas column")
	presetsCmd.Flags().Int("height", 100, "Sample subject height for the canvas column")
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	sw, _ := cmd.Flags().GetInt("width")
	sh, _ := cmd.Flags().GetInt("height")
	if sw <= 0 || sh <= 0 {
		return fmt.Errorf("subject size must be positive, got %dx%d", sw, sh)
	}

	fmt.Printf("%-18s canvas for %dx%d subject\n", "PRESET", sw, sh)
	for _, name := range preset.Names() {
		w, h, err := preset.Size(name, sw, sh)
		if err != nil {
			return err
		}
		fmt.Printf("%-18s %d x %d\n", name, w, h)
	}
	return nil
}
