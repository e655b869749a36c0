package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	brochure "github.com/ysfklc/DigitalBrochure-sub001"
)

var describeCmd = &cobra.Command{
	Use:   "describe [file]",
	Short: "Caption an image with the configured vision model",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func init() {
	describeCmd.Flags().String("backend", "", "Vision backend: ollama or llamacpp (overrides config)")
	describeCmd.Flags().String("model", "", "Vision model name (overrides config)")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Describe.Backend = backend
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Describe.Model = model
	}
	if cfg.Describe.Backend == "" {
		return fmt.Errorf("no vision backend configured; set describe.backend or pass --backend")
	}

	p, err := newPipeline(cfg, newLogger(cmd))
	if err != nil {
		return err
	}
	return printDescription(cmd, p, args[0])
}

func printDescription(cmd *cobra.Command, p *brochure.Pipeline, path string) error {
	result, err := p.Describe(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("describe %s: %w", path, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
