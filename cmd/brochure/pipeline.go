package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	brochure "github.com/ysfklc/DigitalBrochure-sub001"
	"github.com/ysfklc/DigitalBrochure-sub001/internal/config"
	"github.com/ysfklc/DigitalBrochure-sub001/internal/utils"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/client"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/describe"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/llamacpp"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/ollama"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/segment"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/subject"
)

// loadConfig reads the config named by --config, or the default path when it
// exists, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" && utils.FileExists(config.GetConfigPath()) {
		path = config.GetConfigPath()
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if url, _ := cmd.Flags().GetString("segmenter"); url != "" {
		cfg.Segmenter.URL = url
	}
	if timeout, _ := cmd.Flags().GetInt("timeout"); timeout > 0 {
		cfg.Fetch.TimeoutSeconds = timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newPipeline wires a Pipeline from cfg
func newPipeline(cfg *config.Config, logger *slog.Logger) (*brochure.Pipeline, error) {
	compression, err := cfg.CompressionLevel()
	if err != nil {
		return nil, err
	}

	opts := brochure.Options{
		FetchTimeout: cfg.FetchTimeout(),
		TempDir:      cfg.Output.TempDir,
		Compression:  compression,
		Logger:       logger,
		Decoder: subject.NewWithConfig(subject.Config{
			SupportedFormats: cfg.Subject.SupportedFormats,
			TrimTransparent:  cfg.Subject.TrimTransparent,
			TrimThreshold:    cfg.Subject.TrimThreshold,
		}),
	}

	if cfg.Segmenter.URL != "" {
		seg, err := segment.NewHTTPSegmenter(cfg.Segmenter.URL, cfg.Segmenter.Model, cfg.SegmenterTimeout())
		if err != nil {
			return nil, fmt.Errorf("segmenter: %w", err)
		}
		opts.Segmenter = seg.WithLogger(logger)
	}

	if cfg.Describe.Backend != "" {
		vc, err := newVisionClient(cfg.Describe.Backend, cfg.Describe.URL)
		if err != nil {
			return nil, err
		}
		opts.Describer = describe.New(vc, describe.Config{
			Model:   cfg.Describe.Model,
			MaxDim:  cfg.Describe.MaxDim,
			Quality: cfg.Describe.Quality,
		})
	}

	return brochure.New(opts), nil
}

func newVisionClient(backend, url string) (client.VisionClient, error) {
	switch backend {
	case "ollama":
		c, err := ollama.NewClient(url)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return c, nil
	case "llamacpp":
		c, err := llamacpp.NewClient(url)
		if err != nil {
			return nil, fmt.Errorf("failed to create llama.cpp client: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s (use 'ollama' or 'llamacpp')", backend)
	}
}

// setup loads config and builds the pipeline for a subcommand
func setup(cmd *cobra.Command) (*config.Config, *brochure.Pipeline, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	p, err := newPipeline(cfg, newLogger(cmd))
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}
