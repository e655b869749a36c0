package types

// Description is a short marketing caption produced by a vision model for a
// composed product image
type Description struct {
	Label       string   `json:"label"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// TagNoBackground is the output tag used when only background removal ran
const TagNoBackground = "nobg"

