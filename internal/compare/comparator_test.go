package compare

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoregate/scoregate/internal/apperr"
	"github.com/scoregate/scoregate/internal/dataset"
	"github.com/scoregate/scoregate/internal/embedding"
	"github.com/scoregate/scoregate/internal/transport"
)

type fakeRerank struct {
	status  int
	results []map[string]any
}

func (f *fakeRerank) Do(context.Context, string, string, any) transport.Measurement {
	status := f.status
	if status == 0 {
		status = 200
	}
	return transport.NewMeasurement(status, map[string]any{"results": f.results}, 5*time.Millisecond)
}

type fakeEncoder struct {
	name    string
	vectors map[string][]float32
}

func (f *fakeEncoder) Name() string { return f.name }

func (f *fakeEncoder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := f.vectors[t]
		if !ok {
			v = []float32{0, 0}
		}
		out[i] = v
	}
	return out, nil
}

func rows() []dataset.Row {
	return []dataset.Row{{
		Query: "q",
		Candidates: []dataset.Candidate{
			{ID: "A", Text: "alpha"},
			{ID: "B", Text: "beta"},
			{ID: "C", Text: "gamma"},
		},
		Relevant: []string{"B"},
	}}
}

func TestRun_APIPerfectRanking(t *testing.T) {
	doer := &fakeRerank{results: []map[string]any{
		{"id": "C", "rank": 3},
		{"id": "B", "rank": 1},
		{"id": "A", "rank": 2},
	}}
	cmp := NewComparator(doer, nil)

	sum, err := cmp.Run(context.Background(), "toy", rows())

	require.NoError(t, err)
	assert.Equal(t, 1, sum.NQueries)
	assert.Equal(t, 3, sum.K)

	api := sum.Metrics["api"]
	assert.InDelta(t, 1.0, api.NDCGMean, 1e-9, "relevant doc ranked first by rank order")
	assert.InDelta(t, 1.0, api.MRRMean, 1e-9)
	require.NotNil(t, api.LatencyMeanS)
	require.NotNil(t, api.LatencyP95S)
}

func TestRun_EmptyDatasetRejected(t *testing.T) {
	cmp := NewComparator(&fakeRerank{}, nil)

	_, err := cmp.Run(context.Background(), "toy", nil)

	var cfgErr *apperr.ConfigError
	require.True(t, errors.As(err, &cfgErr), "empty row slice must not reach aggregation")
}

func TestRun_APIFailureAborts(t *testing.T) {
	doer := &fakeRerank{status: 503}
	cmp := NewComparator(doer, nil)

	_, err := cmp.Run(context.Background(), "toy", rows())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRun_BaselineCosineRanking(t *testing.T) {
	doer := &fakeRerank{results: []map[string]any{
		{"id": "A", "rank": 1},
		{"id": "B", "rank": 2},
		{"id": "C", "rank": 3},
	}}
	enc := &fakeEncoder{name: "toy-model", vectors: map[string][]float32{
		"q":     {1, 0},
		"alpha": {0, 1},
		"beta":  {1, 0},
		"gamma": {0.5, 0.5},
	}}
	cmp := NewComparator(doer, []embedding.Encoder{enc})

	sum, err := cmp.Run(context.Background(), "toy", rows())

	require.NoError(t, err)
	base := sum.Metrics["toy-model"]
	assert.InDelta(t, 1.0, base.NDCGMean, 1e-9, "beta aligns with the query vector")
	assert.InDelta(t, 1.0, base.MRRMean, 1e-9)
	assert.Nil(t, base.LatencyMeanS, "baselines carry no latency")
}

func TestRankByCosine_StableOnTies(t *testing.T) {
	enc := &fakeEncoder{name: "tied", vectors: map[string][]float32{
		"q":     {1, 0},
		"alpha": {1, 0},
		"beta":  {1, 0},
		"gamma": {0, 1},
	}}

	ranked, err := rankByCosine(context.Background(), enc, rows()[0])

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, ranked, "tied scores keep dataset order")
}
