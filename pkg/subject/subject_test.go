package subject

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysfklc/DigitalBrochure-sub001/pkg/types"
)

// createTestImage creates a transparent image with an opaque block in the middle
func createTestImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := height / 4; y < 3*height/4; y++ {
		for x := width / 4; x < 3*width/4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	t.Parallel()

	s, err := New().Decode(encodePNG(t, createTestImage(120, 80)))
	require.NoError(t, err)

	assert.Equal(t, 120, s.Width)
	assert.Equal(t, 80, s.Height)
	assert.Equal(t, image.Rect(0, 0, 120, 80), s.Image.Bounds())
	assert.InDelta(t, 1.5, s.AspectRatio(), 1e-9)
	assert.Equal(t, uint8(0), s.Image.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(255), s.Image.NRGBAAt(60, 40).A)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"empty":   nil,
		"garbage": []byte("definitely not an image"),
	} {
		_, err := New().Decode(data)
		var encErr *types.EncodingError
		assert.True(t, errors.As(err, &encErr), name)
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, createTestImage(10, 10), nil))

	d := NewWithConfig(Config{SupportedFormats: []string{"png"}})
	_, err := d.Decode(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format: jpeg")
}

func TestFromImageRejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := FromImage(image.NewNRGBA(image.Rect(0, 0, 0, 10)))
	var encErr *types.EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, "read subject dimensions", encErr.Op)
}

func TestFromImageNormalizesOrigin(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(5, 5, 15, 25))
	s, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 20), s.Image.Bounds())
	assert.Equal(t, 10, s.Width)
	assert.Equal(t, 20, s.Height)
}

func TestDecodeTrimTransparent(t *testing.T) {
	t.Parallel()

	d := NewWithConfig(Config{
		SupportedFormats: []string{"png"},
		TrimTransparent:  true,
		TrimThreshold:    0.05,
	})
	s, err := d.Decode(encodePNG(t, createTestImage(100, 60)))
	require.NoError(t, err)
	assert.Equal(t, 50, s.Width)
	assert.Equal(t, 30, s.Height)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "shoe.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, createTestImage(40, 30)), 0644))

	s, err := New().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, s.Width)

	_, err = New().Load(filepath.Join(dir, "missing.png"))
	var fsErr *types.FilesystemError
	require.True(t, errors.As(err, &fsErr))
	assert.Equal(t, "read", fsErr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
