package gate

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/scoregate/scoregate/internal/apperr"
	"github.com/scoregate/scoregate/internal/bench"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
)

// Thresholds holds the gating criteria. P99SMax is optional: when nil the
// p99 criterion is skipped entirely rather than treated as zero.
type Thresholds struct {
	P95SMax        float64  `json:"p95_s_max"`
	P99SMax        *float64 `json:"p99_s_max,omitempty"`
	ErrorRateMax   float64  `json:"error_rate_max"`
	MinOKRateSmoke float64  `json:"min_ok_rate_smoke"`
	WarmupRequests int      `json:"warmup_requests"`
	DiscardFirstN  int      `json:"discard_first_n"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		P95SMax:        2.5,
		ErrorRateMax:   0.0,
		MinOKRateSmoke: 0.75,
		WarmupRequests: 3,
		DiscardFirstN:  2,
	}
}

// LoadThresholds reads gating criteria from a JSON file. A missing or
// malformed file is an operator error, not a gate failure.
func LoadThresholds(path string) (Thresholds, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, apperr.NewConfigWrap(fmt.Sprintf("read thresholds %s", path), err)
	}
	var t Thresholds
	if err := json.Unmarshal(raw, &t); err != nil {
		return Thresholds{}, apperr.NewConfigWrap(fmt.Sprintf("parse thresholds %s", path), err)
	}
	return t, nil
}

// SmokeSummary is the slice of the smoke result the gate cares about.
type SmokeSummary struct {
	OKRate float64 `json:"ok_rate"`
	OK     int     `json:"ok"`
	Total  int     `json:"total"`
}

// Verdict is the full gate outcome, written verbatim as the run artifact.
type Verdict struct {
	RunID        string            `json:"run_id"`
	BaseURL      string            `json:"base_url"`
	GeneratedAt  string            `json:"generated"`
	Thresholds   Thresholds        `json:"thresholds"`
	Measured     bench.Result      `json:"measured"`
	Smoke        SmokeSummary      `json:"smoke"`
	Gate         map[string]string `json:"gate"`
	Pass         bool              `json:"pass"`
	FallbackUsed bool              `json:"fallback_used"`
}

// Evaluate applies every criterion independently and ANDs the outcomes.
// One failing criterion never masks another: the verdict always lists the
// status of each criterion that was evaluated.
func Evaluate(t Thresholds, measured bench.Result, smoke SmokeSummary) Verdict {
	criteria := map[string]string{
		"p95":           status(measured.P95S <= t.P95SMax),
		"error_rate":    status(measured.ErrorRate <= t.ErrorRateMax),
		"smoke_ok_rate": status(smoke.OKRate >= t.MinOKRateSmoke),
	}
	if t.P99SMax != nil {
		criteria["p99"] = status(measured.P99S <= *t.P99SMax)
	}

	pass := true
	for _, v := range criteria {
		if v != StatusPass {
			pass = false
		}
	}

	return Verdict{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Thresholds:  t,
		Measured:    measured,
		Smoke:       smoke,
		Gate:        criteria,
		Pass:        pass,
	}
}

func status(ok bool) string {
	if ok {
		return StatusPass
	}
	return StatusFail
}
