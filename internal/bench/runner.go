package bench

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scoregate/scoregate/internal/apperr"
	"github.com/scoregate/scoregate/internal/labspec"
	"github.com/scoregate/scoregate/internal/metrics"
	"github.com/scoregate/scoregate/internal/transport"
)

type Config struct {
	// Warmup requests are issued before measurement and discarded entirely.
	Warmup int
	// Runs is the number of measured requests. Must be positive.
	Runs int
	// DiscardFirst drops the earliest measured latency samples before the
	// distribution is computed. Error accounting is unaffected.
	DiscardFirst int

	Path    string
	Payload labspec.ScorePayload
}

// Result carries the reduced benchmark outcome. Latency fields are in
// seconds, matching the threshold configuration keys. N is the retained
// sample count; Errors and ErrorRate cover every measured attempt, including
// discarded ones.
type Result struct {
	N         int     `json:"N"`
	Errors    int     `json:"errors"`
	ErrorRate float64 `json:"error_rate"`
	P50S      float64 `json:"p50_s"`
	P95S      float64 `json:"p95_s"`
	P99S      float64 `json:"p99_s"`
	MinS      float64 `json:"min_s"`
	MeanS     float64 `json:"mean_s"`
	MaxS      float64 `json:"max_s"`
}

type Runner struct {
	client transport.Doer
	cfg    Config
}

func NewRunner(client transport.Doer, cfg Config) *Runner {
	if cfg.Path == "" {
		cfg.Path = labspec.DefaultScorePath
	}
	return &Runner{client: client, cfg: cfg}
}

// Run executes the benchmark protocol: warmup, then sequential measurement,
// then discard trimming. The order is load-bearing and must not change; the
// warmup and discard phases exist to let the remote service's cold-start
// effects settle before anything is measured.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.cfg.Runs <= 0 {
		return Result{}, apperr.NewConfig(fmt.Sprintf("benchmark requires a positive sample count, got %d", r.cfg.Runs))
	}

	for i := 0; i < r.cfg.Warmup; i++ {
		_ = r.client.Do(ctx, "POST", r.cfg.Path, r.cfg.Payload)
	}
	if r.cfg.Warmup > 0 {
		slog.Debug("warmup complete", "requests", r.cfg.Warmup)
	}

	samples := make([]metrics.Sample, 0, r.cfg.Runs)
	for i := 0; i < r.cfg.Runs; i++ {
		m := r.client.Do(ctx, "POST", r.cfg.Path, r.cfg.Payload)
		samples = append(samples, m.Sample())
	}

	var errors int
	for _, s := range samples {
		if !s.OK() {
			errors++
		}
	}

	retained := samples
	if r.cfg.DiscardFirst > 0 {
		if r.cfg.DiscardFirst < len(samples) {
			retained = samples[r.cfg.DiscardFirst:]
		} else {
			slog.Warn("discard_first_n >= sample count, keeping all samples",
				"discard", r.cfg.DiscardFirst, "samples", len(samples))
		}
	}

	dist, err := metrics.ComputeDistribution(retained)
	if err != nil {
		return Result{}, fmt.Errorf("benchmark distribution: %w", err)
	}

	return Result{
		N:         len(retained),
		Errors:    errors,
		ErrorRate: float64(errors) / float64(r.cfg.Runs),
		P50S:      dist.P50.Seconds(),
		P95S:      dist.P95.Seconds(),
		P99S:      dist.P99.Seconds(),
		MinS:      dist.Min.Seconds(),
		MeanS:     dist.Mean.Seconds(),
		MaxS:      dist.Max.Seconds(),
	}, nil
}
