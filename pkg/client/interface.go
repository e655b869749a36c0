package client

import (
	"context"

	"github.com/ysfklc/DigitalBrochure-sub001/pkg/types"
)

// VisionClient is a multimodal model backend able to caption product images
type VisionClient interface {
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)
	Describe(ctx context.Context, model, prompt, imgB64 string) (*types.Description, error)
}
