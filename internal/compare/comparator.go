package compare

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/scoregate/scoregate/internal/apperr"
	"github.com/scoregate/scoregate/internal/dataset"
	"github.com/scoregate/scoregate/internal/embedding"
	"github.com/scoregate/scoregate/internal/metrics"
	"github.com/scoregate/scoregate/internal/transport"
)

const (
	defaultRerankPath = "/v1/rerank"
	defaultK          = 3
	defaultAPIName    = "api"
)

type rerankRequest struct {
	Query     string              `json:"query"`
	Documents []dataset.Candidate `json:"documents"`
}

type rerankResponse struct {
	Results []struct {
		ID   string `json:"id"`
		Rank int    `json:"rank"`
	} `json:"results"`
}

// RankerSummary aggregates one ranker's quality over a whole dataset.
// Latency fields are only populated for the remote API ranker; local
// baselines report quality alone.
type RankerSummary struct {
	NDCGMean     float64  `json:"ndcg_mean"`
	MRRMean      float64  `json:"mrr_mean"`
	LatencyMeanS *float64 `json:"latency_mean_s,omitempty"`
	LatencyP95S  *float64 `json:"latency_p95_s,omitempty"`
}

type Summary struct {
	BaseURL  string                   `json:"base_url"`
	Dataset  string                   `json:"dataset"`
	K        int                      `json:"k"`
	NQueries int                      `json:"n_queries"`
	Metrics  map[string]RankerSummary `json:"metrics"`
}

type Comparator struct {
	client     transport.Doer
	rerankPath string
	encoders   []embedding.Encoder
	k          int
	apiName    string
}

type Option func(*Comparator)

func NewComparator(client transport.Doer, encoders []embedding.Encoder, opts ...Option) *Comparator {
	c := &Comparator{
		client:     client,
		rerankPath: defaultRerankPath,
		encoders:   encoders,
		k:          defaultK,
		apiName:    defaultAPIName,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func WithK(k int) Option {
	return func(c *Comparator) { c.k = k }
}

func WithRerankPath(path string) Option {
	return func(c *Comparator) { c.rerankPath = path }
}

// Run scores the remote reranker and every baseline encoder over the same
// dataset rows. A failing rerank call aborts the whole run: a partially
// measured API cannot be compared fairly against fully measured baselines.
func (c *Comparator) Run(ctx context.Context, name string, rows []dataset.Row) (Summary, error) {
	if len(rows) == 0 {
		return Summary{}, apperr.NewConfig("comparison requires at least one dataset row")
	}

	sum := Summary{
		Dataset:  name,
		K:        c.k,
		NQueries: len(rows),
		Metrics:  make(map[string]RankerSummary, len(c.encoders)+1),
	}

	apiSum, err := c.scoreAPI(ctx, rows)
	if err != nil {
		return Summary{}, err
	}
	sum.Metrics[c.apiName] = apiSum

	for _, enc := range c.encoders {
		encSum, err := c.scoreEncoder(ctx, enc, rows)
		if err != nil {
			return Summary{}, fmt.Errorf("baseline %s: %w", enc.Name(), err)
		}
		sum.Metrics[enc.Name()] = encSum
	}

	return sum, nil
}

func (c *Comparator) scoreAPI(ctx context.Context, rows []dataset.Row) (RankerSummary, error) {
	var (
		ndcgSum, mrrSum float64
		latencies       []time.Duration
	)

	for _, row := range rows {
		m := c.client.Do(ctx, "POST", c.rerankPath, rerankRequest{
			Query:     row.Query,
			Documents: row.Candidates,
		})
		if !m.OK() {
			return RankerSummary{}, fmt.Errorf("rerank %q: status %d: %s",
				row.Query, m.Status, m.BodyPreview(180))
		}

		var resp rerankResponse
		if err := m.Decode(&resp); err != nil {
			return RankerSummary{}, fmt.Errorf("rerank %q: %w", row.Query, err)
		}

		sort.SliceStable(resp.Results, func(i, j int) bool {
			return resp.Results[i].Rank < resp.Results[j].Rank
		})
		ranked := make([]string, len(resp.Results))
		for i, r := range resp.Results {
			ranked[i] = r.ID
		}

		ndcgSum += metrics.NDCGAtK(ranked, row.Relevant, c.k)
		mrrSum += metrics.MRRAtK(ranked, row.Relevant, c.k)
		latencies = append(latencies, m.Elapsed)
	}

	out := RankerSummary{
		NDCGMean: ndcgSum / float64(len(rows)),
		MRRMean:  mrrSum / float64(len(rows)),
	}
	if len(latencies) > 0 {
		var total time.Duration
		for _, d := range latencies {
			total += d
		}
		mean := (total / time.Duration(len(latencies))).Seconds()
		out.LatencyMeanS = &mean

		p95, err := metrics.Quantile(latencies, 0.95)
		if err != nil {
			return RankerSummary{}, err
		}
		p95s := p95.Seconds()
		out.LatencyP95S = &p95s
	}
	return out, nil
}

func (c *Comparator) scoreEncoder(ctx context.Context, enc embedding.Encoder, rows []dataset.Row) (RankerSummary, error) {
	var ndcgSum, mrrSum float64

	for _, row := range rows {
		ranked, err := rankByCosine(ctx, enc, row)
		if err != nil {
			return RankerSummary{}, err
		}
		ndcgSum += metrics.NDCGAtK(ranked, row.Relevant, c.k)
		mrrSum += metrics.MRRAtK(ranked, row.Relevant, c.k)
	}

	slog.Debug("baseline scored", "encoder", enc.Name(), "queries", len(rows))
	return RankerSummary{
		NDCGMean: ndcgSum / float64(len(rows)),
		MRRMean:  mrrSum / float64(len(rows)),
	}, nil
}

// rankByCosine embeds the query and every candidate in one batch, then
// orders candidates by cosine similarity. The sort is stable so that tied
// scores preserve dataset order.
func rankByCosine(ctx context.Context, enc embedding.Encoder, row dataset.Row) ([]string, error) {
	texts := make([]string, 0, len(row.Candidates)+1)
	texts = append(texts, row.Query)
	for _, cand := range row.Candidates {
		texts = append(texts, cand.Text)
	}

	vecs, err := enc.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embed returned %d vectors for %d texts", len(vecs), len(texts))
	}

	query := vecs[0]
	type scored struct {
		id    string
		score float64
	}
	items := make([]scored, len(row.Candidates))
	for i, cand := range row.Candidates {
		items[i] = scored{id: cand.ID, score: cosine(query, vecs[i+1])}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	ranked := make([]string, len(items))
	for i, it := range items {
		ranked[i] = it.id
	}
	return ranked, nil
}

func cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(na) * math.Sqrt(nb)
	if denom < 1e-12 {
		return 0
	}
	return dot / denom
}
