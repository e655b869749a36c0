package segment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ysfklc/DigitalBrochure-sub001/pkg/subject"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/types"
)

// Segmenter strips the background from an encoded image and returns an
// encoded image with a transparent background. Implementations may take
// seconds per call.
type Segmenter interface {
	Segment(ctx context.Context, image []byte) ([]byte, error)
}

// Func adapts an ordinary function to the Segmenter interface
type Func func(ctx context.Context, image []byte) ([]byte, error)

// Segment calls f(ctx, image)
func (f Func) Segment(ctx context.Context, image []byte) ([]byte, error) {
	return f(ctx, image)
}

// Remover runs a Segmenter and decodes its output into a Subject
type Remover struct {
	segmenter Segmenter
	decoder   *subject.Decoder
	logger    *slog.Logger
}

// NewRemover creates a Remover. A nil decoder uses subject.New().
func NewRemover(segmenter Segmenter, decoder *subject.Decoder, logger *slog.Logger) *Remover {
	if decoder == nil {
		decoder = subject.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Remover{segmenter: segmenter, decoder: decoder, logger: logger}
}

// RemoveBackground segments data and returns the transparent-background subject.
// Segmenter failures are returned as *types.BackgroundRemovalError.
func (r *Remover) RemoveBackground(ctx context.Context, data []byte) (subject.Subject, error) {
	if r.segmenter == nil {
		return subject.Subject{}, &types.BackgroundRemovalError{Err: errors.New("no segmenter configured")}
	}

	start := time.Now()
	out, err := r.segmenter.Segment(ctx, data)
	if err != nil {
		return subject.Subject{}, &types.BackgroundRemovalError{Err: err}
	}
	r.logger.Debug("background removed", "in_bytes", len(data), "out_bytes", len(out), "elapsed", time.Since(start))

	return r.decoder.Decode(out)
}
