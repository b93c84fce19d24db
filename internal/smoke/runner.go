package smoke

import (
	"context"
	"log/slog"

	"github.com/scoregate/scoregate/internal/labspec"
	"github.com/scoregate/scoregate/internal/transport"
)

// ProbeResult is one liveness probe outcome.
type ProbeResult struct {
	Path     string  `json:"path"`
	Status   int     `json:"status"`
	LatencyS float64 `json:"latency_s"`
	BodyType string  `json:"body_type"`
}

type Result struct {
	Tests  []ProbeResult `json:"tests"`
	OK     int           `json:"ok"`
	Total  int           `json:"total"`
	OKRate float64       `json:"ok_rate"`
}

type Runner struct {
	client transport.Doer
	probes []labspec.Probe
}

func NewRunner(client transport.Doer, probes []labspec.Probe) *Runner {
	if len(probes) == 0 {
		probes = labspec.Default().Probes
	}
	return &Runner{client: client, probes: probes}
}

// Run issues every probe exactly once, sequentially. A failing probe only
// lowers ok_rate; it never aborts the run.
func (r *Runner) Run(ctx context.Context) Result {
	res := Result{
		Tests: make([]ProbeResult, 0, len(r.probes)),
		Total: len(r.probes),
	}

	for _, p := range r.probes {
		m := r.client.Do(ctx, p.Method, p.Path, nil)
		res.Tests = append(res.Tests, ProbeResult{
			Path:     p.Path,
			Status:   m.Status,
			LatencyS: m.Elapsed.Seconds(),
			BodyType: m.BodyKind(),
		})
		if m.OK() {
			res.OK++
		} else {
			slog.Warn("smoke probe failed", "path", p.Path, "status", m.Status)
		}
	}

	res.OKRate = float64(res.OK) / float64(max(1, res.Total))
	return res
}
