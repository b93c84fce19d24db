package embedding

import (
	"context"
	"fmt"
	"log/slog"
)

// OllamaEncoder adapts a single Ollama model to the Encoder interface.
type OllamaEncoder struct {
	model  string
	client Client
}

type EncoderOption func(*OllamaEncoder)

func NewOllamaEncoder(client Client, opts ...EncoderOption) *OllamaEncoder {
	enc := &OllamaEncoder{
		model:  defaultModel,
		client: client,
	}

	for _, opt := range opts {
		opt(enc)
	}

	return enc
}

func WithEncoderModel(model string) EncoderOption {
	return func(enc *OllamaEncoder) {
		enc.model = model
	}
}

func (e *OllamaEncoder) Name() string {
	return e.model
}

func (e *OllamaEncoder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	slog.Debug("embedding batch", "model", e.model, "count", len(texts))

	resp, err := e.client.GenerateBatch(ctx, BatchRequest{
		Model:   e.model,
		Prompts: texts,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	return resp.Embeddings, nil
}
