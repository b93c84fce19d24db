package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	lastReq BatchRequest
	resp    *BatchResponse
}

func (f *fakeClient) GenerateBatch(_ context.Context, req BatchRequest) (*BatchResponse, error) {
	f.lastReq = req
	return f.resp, nil
}

func TestOllamaEncoder_Embed(t *testing.T) {
	client := &fakeClient{resp: &BatchResponse{Embeddings: [][]float32{{1, 0}, {0, 1}}}}
	enc := NewOllamaEncoder(client, WithEncoderModel("test-model"))

	vecs, err := enc.Embed(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, "test-model", client.lastReq.Model)
	assert.Equal(t, []string{"a", "b"}, client.lastReq.Prompts)
}

func TestOllamaEncoder_CountMismatch(t *testing.T) {
	client := &fakeClient{resp: &BatchResponse{Embeddings: [][]float32{{1, 0}}}}
	enc := NewOllamaEncoder(client)

	_, err := enc.Embed(context.Background(), []string{"a", "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 embeddings")
}

func TestOllamaEncoder_EmptyInput(t *testing.T) {
	enc := NewOllamaEncoder(&fakeClient{})

	vecs, err := enc.Embed(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestOllamaEncoder_DefaultName(t *testing.T) {
	enc := NewOllamaEncoder(&fakeClient{})
	assert.Equal(t, defaultModel, enc.Name())
}
