// Package brochure turns product photos into brochure-ready PNG compositions.
//
// A Pipeline resolves a source image (local path or http(s) URL), strips its
// background through an injected segmenter, and either writes the cutout as
// is or lays it out with one of nine fixed presets. Each call returns the path
// of a new file named {tag}_{epochMillis}_{random}.png in the output directory.
//
// Basic usage:
//
//	seg, err := segment.NewHTTPSegmenter("http://localhost:7000", "u2net", 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	p := brochure.New(brochure.Options{Segmenter: seg})
//
//	path, err := p.ApplyPresetFromURL(ctx, "https://example.com/shoe.jpg", "clean_center", "out")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println("wrote", path)
//
// The package consists of these components:
//
//  1. Source (pkg/source): local reads and bounded remote fetches
//  2. Segment (pkg/segment): the background removal capability and an HTTP client for it
//  3. Canvas (pkg/canvas): allocation, shadow synthesis and alpha-over compositing
//  4. Preset (pkg/preset): the registry of nine layouts
//  5. Output (pkg/output): collision-free PNG persistence
//  6. Describe (pkg/describe): optional captions from a vision model
//
// Calls share no mutable state, so one Pipeline may serve concurrent requests.
package brochure

import (
	"context"
	"errors"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/ysfklc/DigitalBrochure-sub001/internal/utils"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/describe"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/output"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/preset"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/segment"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/source"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/subject"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/types"
)

// Version of the brochure library
const Version = "1.0.0"

// Options configures a Pipeline. Only Segmenter is needed for composition.
type Options struct {
	// Segmenter removes backgrounds. Calls fail with
	// *types.BackgroundRemovalError when it is nil.
	Segmenter segment.Segmenter

	// Describer captions produced images. Optional.
	Describer *describe.Describer

	// FetchTimeout bounds remote source downloads. Defaults to source.DefaultTimeout.
	FetchTimeout time.Duration
	HTTPClient   *http.Client

	// TempDir holds downloaded sources while they are processed. Defaults to os.TempDir().
	TempDir string

	Decoder     *subject.Decoder
	Compression png.CompressionLevel
	Logger      *slog.Logger
}

// Pipeline runs the fetch, segment, compose and write stages
type Pipeline struct {
	fetcher   *source.Fetcher
	remover   *segment.Remover
	decoder   *subject.Decoder
	writer    *output.Writer
	describer *describe.Describer
	tempDir   string
	logger    *slog.Logger
}

// New creates a Pipeline from opts
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	decoder := opts.Decoder
	if decoder == nil {
		decoder = subject.New()
	}
	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	return &Pipeline{
		fetcher: source.NewFetcher(
			source.WithTimeout(opts.FetchTimeout),
			source.WithHTTPClient(opts.HTTPClient),
			source.WithLogger(logger),
		),
		remover: segment.NewRemover(opts.Segmenter, decoder, logger),
		decoder: decoder,
		writer: output.NewWriter(
			output.WithCompression(opts.Compression),
			output.WithLogger(logger),
		),
		describer: opts.Describer,
		tempDir:   tempDir,
		logger:    logger,
	}
}

// AvailablePresets returns the names accepted by ProcessImage and ApplyPresetFromURL
func (p *Pipeline) AvailablePresets() []string {
	return preset.Strings()
}

// ProcessImage removes the background of the local file at inputPath. With
// removeBackgroundOnly the cutout is written with the "nobg" tag and
// presetName is ignored; otherwise presetName must name a known preset.
func (p *Pipeline) ProcessImage(ctx context.Context, inputPath, outputDir, presetName string, removeBackgroundOnly bool) (string, error) {
	var name preset.Name
	if !removeBackgroundOnly {
		var err error
		if name, err = preset.Parse(presetName); err != nil {
			return "", err
		}
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", &types.FilesystemError{Op: "read", Path: inputPath, Err: err}
	}

	return p.run(ctx, data, outputDir, name, removeBackgroundOnly)
}

// RemoveBackgroundFromURL resolves source, which may be a URL or a local
// path, and writes its cutout with the "nobg" tag.
func (p *Pipeline) RemoveBackgroundFromURL(ctx context.Context, src, outputDir string) (string, error) {
	data, err := p.fetcher.Resolve(ctx, src)
	if err != nil {
		return "", err
	}
	return p.run(ctx, data, outputDir, "", true)
}

// ApplyPresetFromURL resolves source, stages it in a temporary file, and
// composes it with presetName. The temporary file is removed on every path.
func (p *Pipeline) ApplyPresetFromURL(ctx context.Context, src, presetName, outputDir string) (string, error) {
	name, err := preset.Parse(presetName)
	if err != nil {
		return "", err
	}

	data, err := p.fetcher.Resolve(ctx, src)
	if err != nil {
		return "", err
	}

	tmpPath, err := p.stage(data)
	if err != nil {
		return "", err
	}
	defer p.unstage(tmpPath)

	return p.ProcessImage(ctx, tmpPath, outputDir, string(name), false)
}

// Describe captions the image at path with the configured vision model
func (p *Pipeline) Describe(ctx context.Context, path string) (*types.Description, error) {
	if p.describer == nil {
		return nil, types.ErrDescriberDisabled
	}

	s, err := p.decoder.Load(path)
	if err != nil {
		return nil, err
	}
	return p.describer.Describe(ctx, s.Image)
}

func (p *Pipeline) run(ctx context.Context, data []byte, outputDir string, name preset.Name, backgroundOnly bool) (string, error) {
	start := time.Now()

	s, err := p.remover.RemoveBackground(ctx, data)
	if err != nil {
		return "", err
	}

	if backgroundOnly {
		path, err := p.writer.Write(s.Image, outputDir, types.TagNoBackground)
		if err != nil {
			return "", err
		}
		p.logger.Info("background removed", "path", path, "elapsed", time.Since(start))
		return path, nil
	}

	composed, err := preset.Apply(name, s)
	if err != nil {
		return "", err
	}

	path, err := p.writer.Write(composed, outputDir, string(name))
	if err != nil {
		return "", err
	}
	p.logger.Info("preset applied",
		"preset", name,
		"subject", [2]int{s.Width, s.Height},
		"canvas", [2]int{composed.Bounds().Dx(), composed.Bounds().Dy()},
		"path", path,
		"elapsed", time.Since(start),
	)
	return path, nil
}

// stage writes data to a fresh file under the temp dir
func (p *Pipeline) stage(data []byte) (string, error) {
	if err := utils.EnsureDir(p.tempDir); err != nil {
		return "", &types.FilesystemError{Op: "mkdir", Path: p.tempDir, Err: err}
	}

	path := filepath.Join(p.tempDir, "source_"+ksuid.New().String())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", &types.FilesystemError{Op: "create temp", Path: path, Err: err}
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(path)
		return "", &types.FilesystemError{Op: "write temp", Path: path, Err: err}
	}

	p.logger.Debug("staged source", "path", path, "bytes", len(data))
	return path, nil
}

func (p *Pipeline) unstage(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.logger.Warn("failed to remove temp file", "path", path, "error", err)
	}
}
