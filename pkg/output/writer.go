package output

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ysfklc/DigitalBrochure-sub001/internal/utils"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/types"
)

const randomIDLength = 9

// Writer persists composed canvases as uniquely named PNG files
type Writer struct {
	compression png.CompressionLevel
	now         func() time.Time
	randomID    func(n int) (string, error)
	logger      *slog.Logger
}

// Option configures a Writer
type Option func(*Writer)

// WithCompression sets the PNG compression level
func WithCompression(level png.CompressionLevel) Option {
	return func(w *Writer) {
		w.compression = level
	}
}

// WithClock replaces the timestamp source
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		if now != nil {
			w.now = now
		}
	}
}

// WithRandomID replaces the random suffix source
func WithRandomID(fn func(n int) (string, error)) Option {
	return func(w *Writer) {
		if fn != nil {
			w.randomID = fn
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWriter creates a Writer with default compression
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		compression: png.DefaultCompression,
		now:         time.Now,
		randomID:    utils.RandomID,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write encodes img as PNG into dir as {tag}_{epochMillis}_{random}.png and
// returns the path. The directory is created when missing. A failed write
// leaves no file behind.
func (w *Writer) Write(img image.Image, dir, tag string) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", &types.FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(w.compression)); err != nil {
		return "", &types.EncodingError{Op: "encode png", Err: err}
	}

	name, err := w.Name(tag)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", &types.FilesystemError{Op: "create", Path: path, Err: err}
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", &types.FilesystemError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", &types.FilesystemError{Op: "close", Path: path, Err: err}
	}

	w.logger.Debug("wrote output", "path", path, "bytes", buf.Len())
	return path, nil
}

// Name builds a file name for tag using the current time and a random suffix
func (w *Writer) Name(tag string) (string, error) {
	id, err := w.randomID(randomIDLength)
	if err != nil {
		return "", fmt.Errorf("generate output name: %w", err)
	}
	return fmt.Sprintf("%s_%d_%s.png", utils.SanitizeTag(tag), w.now().UnixMilli(), id), nil
}
