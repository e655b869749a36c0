package config

import (
	"encoding/json"
	"fmt"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Segmenter SegmenterConfig `json:"segmenter" yaml:"segmenter"`
	Subject   SubjectConfig   `json:"subject" yaml:"subject"`
	Output    OutputConfig    `json:"output" yaml:"output"`
	Describe  DescribeConfig  `json:"describe" yaml:"describe"`
}

// FetchConfig holds configuration for remote sources
type FetchConfig struct {
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// SegmenterConfig points at the background removal service
type SegmenterConfig struct {
	URL            string `json:"url" yaml:"url"`
	Model          string `json:"model" yaml:"model"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// SubjectConfig holds configuration for decoding segmented subjects
type SubjectConfig struct {
	SupportedFormats []string `json:"supported_formats" yaml:"supported_formats"`
	TrimTransparent  bool     `json:"trim_transparent" yaml:"trim_transparent"`
	TrimThreshold    float64  `json:"trim_threshold" yaml:"trim_threshold"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	OutputDir   string `json:"output_dir" yaml:"output_dir"`
	TempDir     string `json:"temp_dir" yaml:"temp_dir"`
	Compression string `json:"compression" yaml:"compression"`
}

// DescribeConfig selects the optional vision backend. An empty Backend disables it.
type DescribeConfig struct {
	Backend string `json:"backend" yaml:"backend"`
	URL     string `json:"url" yaml:"url"`
	Model   string `json:"model" yaml:"model"`
	MaxDim  int    `json:"max_dim" yaml:"max_dim"`
	Quality int    `json:"quality" yaml:"quality"`
}

var compressionLevels = map[string]png.CompressionLevel{
	"default": png.DefaultCompression,
	"none":    png.NoCompression,
	"fast":    png.BestSpeed,
	"best":    png.BestCompression,
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
		},
		Segmenter: SegmenterConfig{
			URL:            "http://localhost:7000",
			Model:          "u2net",
			TimeoutSeconds: 120,
		},
		Subject: SubjectConfig{
			SupportedFormats: []string{"png", "jpeg", "webp", "gif", "bmp", "tiff"},
			TrimTransparent:  false,
			TrimThreshold:    0.05,
		},
		Output: OutputConfig{
			OutputDir:   "./output",
			TempDir:     "",
			Compression: "default",
		},
		Describe: DescribeConfig{
			Backend: "",
			URL:     "http://localhost:11434",
			Model:   "llava",
			MaxDim:  1024,
			Quality: 90,
		},
	}
}

// LoadFromFile loads configuration from a JSON or YAML file, chosen by
// extension. Keys missing from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if isYAML(filename) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON or YAML file, chosen by extension
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isYAML(filename) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Fetch.TimeoutSeconds < 1 {
		return fmt.Errorf("fetch.timeout_seconds must be positive")
	}

	if c.Segmenter.URL != "" {
		if err := validateURL(c.Segmenter.URL); err != nil {
			return fmt.Errorf("segmenter.url: %w", err)
		}
	}

	if c.Segmenter.TimeoutSeconds < 0 {
		return fmt.Errorf("segmenter.timeout_seconds cannot be negative")
	}

	if len(c.Subject.SupportedFormats) == 0 {
		return fmt.Errorf("subject.supported_formats cannot be empty")
	}

	if c.Subject.TrimThreshold < 0 || c.Subject.TrimThreshold > 1 {
		return fmt.Errorf("subject.trim_threshold must be between 0 and 1")
	}

	if _, err := c.CompressionLevel(); err != nil {
		return err
	}

	switch c.Describe.Backend {
	case "":
	case "ollama", "llamacpp":
		if err := validateURL(c.Describe.URL); err != nil {
			return fmt.Errorf("describe.url: %w", err)
		}
		if c.Describe.Model == "" {
			return fmt.Errorf("describe.model cannot be empty")
		}
	default:
		return fmt.Errorf("describe.backend must be ollama or llamacpp, got %q", c.Describe.Backend)
	}

	if c.Describe.Quality < 0 || c.Describe.Quality > 100 {
		return fmt.Errorf("describe.quality must be between 1 and 100")
	}

	return nil
}

// CompressionLevel maps Output.Compression to a PNG compression level
func (c *Config) CompressionLevel() (png.CompressionLevel, error) {
	name := strings.ToLower(strings.TrimSpace(c.Output.Compression))
	if name == "" {
		return png.DefaultCompression, nil
	}
	level, ok := compressionLevels[name]
	if !ok {
		return 0, fmt.Errorf("output.compression must be one of default, none, fast, best; got %q", c.Output.Compression)
	}
	return level, nil
}

// FetchTimeout returns the remote fetch deadline
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// SegmenterTimeout returns the per-request segmenter deadline
func (c *Config) SegmenterTimeout() time.Duration {
	return time.Duration(c.Segmenter.TimeoutSeconds) * time.Second
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(home, ".config", "brochure", "config.yaml")
}

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
