package hardening

import (
	"context"
	"log/slog"

	"github.com/scoregate/scoregate/internal/labspec"
	"github.com/scoregate/scoregate/internal/transport"
)

// previewLimit bounds the stored response body excerpt per case.
const previewLimit = 180

// CaseResult is one adversarial case outcome. The body preview is kept for
// diagnostics only; content is never asserted on.
type CaseResult struct {
	Case        string  `json:"case"`
	Status      int     `json:"status"`
	LatencyS    float64 `json:"latency_s"`
	BodyPreview string  `json:"body_preview"`
}

type Result struct {
	Rows      []CaseResult `json:"rows"`
	Errors    int          `json:"errors"`
	N         int          `json:"N"`
	ErrorRate float64      `json:"error_rate"`
}

type Runner struct {
	client transport.Doer
	path   string
	cases  []labspec.Case
}

func NewRunner(client transport.Doer, path string, cases []labspec.Case) *Runner {
	if path == "" {
		path = labspec.DefaultScorePath
	}
	if len(cases) == 0 {
		cases = labspec.Default().Cases
	}
	return &Runner{client: client, path: path, cases: cases}
}

// Run POSTs every case exactly once to the scoring endpoint. This is a
// liveness-under-stress probe: any non-200 counts as an error, nothing else
// is validated.
func (r *Runner) Run(ctx context.Context) Result {
	res := Result{
		Rows: make([]CaseResult, 0, len(r.cases)),
		N:    len(r.cases),
	}

	for _, c := range r.cases {
		m := r.client.Do(ctx, "POST", r.path, c.Payload())
		if !m.OK() {
			res.Errors++
			slog.Warn("hardening case rejected", "case", c.Name, "status", m.Status)
		}
		res.Rows = append(res.Rows, CaseResult{
			Case:        c.Name,
			Status:      m.Status,
			LatencyS:    m.Elapsed.Seconds(),
			BodyPreview: m.BodyPreview(previewLimit),
		})
	}

	res.ErrorRate = float64(res.Errors) / float64(max(1, res.N))
	return res
}
