package segment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultEndpoint = "/api/remove"
	defaultTimeout  = 2 * time.Minute
)

// HTTPSegmenter calls a rembg-compatible HTTP service.
//
//	curl -X POST "$BASE_URL/api/remove" -F "file=@shoe.jpg" -F "model=birefnet-general" -o shoe.png
type HTTPSegmenter struct {
	endpoint string
	model    string
	cli      *http.Client
	logger   *slog.Logger
}

// NewHTTPSegmenter creates a segmenter for the service at baseURL. An empty
// model lets the service pick its default.
func NewHTTPSegmenter(baseURL, model string, timeout time.Duration) (*HTTPSegmenter, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %q", parsed.Scheme)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	endpoint := strings.TrimSuffix(baseURL, "/")
	if parsed.Path == "" || parsed.Path == "/" {
		endpoint += defaultEndpoint
	}

	return &HTTPSegmenter{
		endpoint: endpoint,
		model:    model,
		cli:      &http.Client{Timeout: timeout},
		logger:   slog.Default(),
	}, nil
}

// WithLogger sets the logger and returns s
func (s *HTTPSegmenter) WithLogger(l *slog.Logger) *HTTPSegmenter {
	if l != nil {
		s.logger = l
	}
	return s
}

// Segment uploads the image and returns the service's PNG response
func (s *HTTPSegmenter) Segment(ctx context.Context, image []byte) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "source")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if s.model != "" {
		if err := writer.WriteField("model", s.model); err != nil {
			return nil, fmt.Errorf("write model field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(out))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, fmt.Errorf("segmentation service returned %s: %s", resp.Status, msg)
	}

	s.logger.Debug("segmentation response", "endpoint", s.endpoint, "model", s.model, "bytes", len(out))
	return out, nil
}
