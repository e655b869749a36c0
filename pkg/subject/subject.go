package subject

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/ysfklc/DigitalBrochure-sub001/pkg/canvas"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/types"
)

// Subject is a product image whose background has been made transparent.
// Width and Height are read once from the decoded bounds.
type Subject struct {
	Image  *image.NRGBA
	Width  int
	Height int
}

// AspectRatio returns width divided by height
func (s Subject) AspectRatio() float64 {
	return float64(s.Width) / float64(s.Height)
}

// FromImage wraps an already decoded image, normalizing it to NRGBA at origin (0,0)
func FromImage(img image.Image) (Subject, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Subject{}, &types.EncodingError{
			Op:  "read subject dimensions",
			Err: fmt.Errorf("image has no pixels (%dx%d)", b.Dx(), b.Dy()),
		}
	}
	nrgba := imaging.Clone(img)
	return Subject{Image: nrgba, Width: b.Dx(), Height: b.Dy()}, nil
}

// Decoder turns encoded image bytes into a Subject
type Decoder struct {
	config Config
}

// Config holds configuration for subject decoding
type Config struct {
	SupportedFormats []string
	// TrimTransparent crops the subject to its visible pixels
	TrimTransparent bool
	TrimThreshold   float64
}

// New creates a new Decoder with default configuration
func New() *Decoder {
	return &Decoder{
		config: Config{
			SupportedFormats: []string{"png", "jpeg", "webp", "gif", "bmp", "tiff"},
			TrimThreshold:    0.05,
		},
	}
}

// NewWithConfig creates a new Decoder with custom configuration
func NewWithConfig(config Config) *Decoder {
	return &Decoder{config: config}
}

// Load reads and decodes a subject from a local file
func (d *Decoder) Load(path string) (Subject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Subject{}, &types.FilesystemError{Op: "read", Path: path, Err: err}
	}
	return d.Decode(data)
}

// Decode decodes image bytes into a Subject
func (d *Decoder) Decode(data []byte) (Subject, error) {
	img, format, err := decodeImage(data)
	if err != nil {
		return Subject{}, &types.EncodingError{Op: "decode subject", Err: err}
	}

	if !d.isFormatSupported(format) {
		return Subject{}, &types.EncodingError{
			Op:  "decode subject",
			Err: fmt.Errorf("unsupported image format: %s", format),
		}
	}

	s, err := FromImage(img)
	if err != nil {
		return Subject{}, err
	}

	if d.config.TrimTransparent {
		if trimmed, ok := canvas.TrimToContent(s.Image, d.config.TrimThreshold); ok {
			s = Subject{Image: trimmed, Width: trimmed.Bounds().Dx(), Height: trimmed.Bounds().Dy()}
		}
	}

	return s, nil
}

func (d *Decoder) isFormatSupported(format string) bool {
	for _, supported := range d.config.SupportedFormats {
		if strings.EqualFold(format, supported) {
			return true
		}
	}
	return false
}

// decodeImage tries the registered decoders first, then the libwebp decoder
func decodeImage(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", errors.New("empty image data")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, format, nil
	}

	if img, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return img, "webp", nil
	}

	return nil, "", fmt.Errorf("unknown or unsupported format: %w", err)
}
