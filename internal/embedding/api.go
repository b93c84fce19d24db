package embedding

import (
	"context"
)

const defaultModel = "qwen3-embedding:0.6b"

type BatchRequest struct {
	Model   string         `json:"model"`
	Prompts []string       `json:"prompts"`
	Options map[string]any `json:"options,omitempty"`
}

type BatchResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Client generates embedding vectors for batches of texts. The only
// implementation talks to an Ollama server; tests substitute fakes.
type Client interface {
	GenerateBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error)
}

// Encoder is a named text-to-vector model. Comparison runs hold one Encoder
// per baseline model under evaluation.
type Encoder interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
