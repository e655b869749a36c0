// Package describe captions composed product images with a multimodal model.
package describe

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ysfklc/DigitalBrochure-sub001/pkg/client"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/types"
)

// SimpleTestPrompt for testing if the model can see images
const SimpleTestPrompt = `What do you see in this image? Describe it briefly.`

// DefaultPrompt asks for a brochure caption of the dominant product
const DefaultPrompt = `You are writing captions for a product brochure.

Return JSON only:
{
  "label": "string",
  "confidence": 0.0,
  "description": "short neutral sentence (≤ 20 words)",
  "tags": ["tag1", "tag2", "tag3", "tag4", "tag5"]
}

HARD RULES
- The label names the visually dominant product in one or two words.
- Description must be brief and factual. No prices, no brand guesses.
- Tags: lowercase, concise, no punctuation or duplicates.
- If no product is visible, return:
  {"label":"none","confidence":0.0,"description":"no product visible","tags":["generic"]}
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

const maxTags = 5

// Config controls how images are prepared for the model
type Config struct {
	Model   string
	Prompt  string
	MaxDim  int
	Quality int
}

// DefaultConfig returns the settings used when none are supplied
func DefaultConfig() Config {
	return Config{
		Model:   "llava",
		Prompt:  DefaultPrompt,
		MaxDim:  1024,
		Quality: 90,
	}
}

// Describer captions images using a vision client
type Describer struct {
	client client.VisionClient
	config Config
}

// New creates a describer. Zero config fields fall back to DefaultConfig.
func New(c client.VisionClient, config Config) *Describer {
	def := DefaultConfig()
	if config.Model == "" {
		config.Model = def.Model
	}
	if config.Prompt == "" {
		config.Prompt = def.Prompt
	}
	if config.MaxDim <= 0 {
		config.MaxDim = def.MaxDim
	}
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = def.Quality
	}
	return &Describer{client: c, config: config}
}

// Describe captions img and normalizes the reply
func (d *Describer) Describe(ctx context.Context, img image.Image) (*types.Description, error) {
	imgB64, err := d.Prepare(img)
	if err != nil {
		return nil, err
	}

	result, err := d.client.Describe(ctx, d.config.Model, d.config.Prompt, imgB64)
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}

	return normalize(result), nil
}

// TestVision checks whether the model can see the image at all
func (d *Describer) TestVision(ctx context.Context, img image.Image) (string, error) {
	imgB64, err := d.Prepare(img)
	if err != nil {
		return "", err
	}
	return d.client.SimpleQuery(ctx, d.config.Model, SimpleTestPrompt, imgB64)
}

// Prepare downsizes img to fit MaxDim, flattens transparency onto white and
// returns it as base64 JPEG.
func (d *Describer) Prepare(img image.Image) (string, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return "", &types.EncodingError{Op: "prepare image", Err: fmt.Errorf("image has no pixels (%dx%d)", w, h)}
	}

	if w > d.config.MaxDim || h > d.config.MaxDim {
		if w >= h {
			img = imaging.Resize(img, d.config.MaxDim, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, d.config.MaxDim, imaging.Lanczos)
		}
	}

	// JPEG has no alpha; product cutouts read best on white
	flat := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(d.config.Quality)); err != nil {
		return "", &types.EncodingError{Op: "encode jpeg", Err: err}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// normalize cleans tags, bounds confidence and collapses fallback replies to "none"
func normalize(result *types.Description) *types.Description {
	result.Label = strings.TrimSpace(result.Label)
	result.Description = strings.TrimSpace(result.Description)
	result.Confidence = clamp(result.Confidence, 0, 1)
	result.Tags = normalizeTags(result.Tags)

	if strings.EqualFold(result.Label, "none") {
		result.Label = "none"
		return result
	}

	fallbackIndicators := []string{"unclear", "parse", "fallback", "non-json"}
	label := strings.ToLower(result.Label)
	for _, indicator := range fallbackIndicators {
		if strings.Contains(label, indicator) {
			result.Label = "none"
			result.Confidence = 0
			break
		}
	}

	return result
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeTags ensures tags are cleaned and limited to five entries
func normalizeTags(tags []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, maxTags)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == maxTags {
			break
		}
	}
	return out
}
