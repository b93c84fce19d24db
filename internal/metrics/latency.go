package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/scoregate/scoregate/internal/apperr"
)

// Sample is one request outcome as seen by the statistics layer.
type Sample struct {
	Status  int
	Elapsed time.Duration
}

// OK reports whether the sample counts as a success. Anything other than a
// 200, including the network-failure sentinel 0, is an error.
func (s Sample) OK() bool {
	return s.Status == http.StatusOK
}

// Distribution summarizes the elapsed times of a sample set. Computed once,
// never mutated.
type Distribution struct {
	P50        time.Duration
	P95        time.Duration
	P99        time.Duration
	Min        time.Duration
	Mean       time.Duration
	Max        time.Duration
	Count      int
	ErrorCount int
	ErrorRate  float64
}

// Quantile returns the linear-interpolation quantile of samples for
// q in [0,1]. An empty input is a configuration error.
func Quantile(samples []time.Duration, q float64) (time.Duration, error) {
	if len(samples) == 0 {
		return 0, apperr.NewConfig("quantile requires at least one sample")
	}
	if q < 0 || q > 1 {
		return 0, apperr.NewConfig(fmt.Sprintf("quantile level %v outside [0,1]", q))
	}

	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return interpolate(sorted, q), nil
}

func interpolate(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := q * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := rank - float64(lower)
	return time.Duration(float64(sorted[lower])*(1-weight) + float64(sorted[upper])*weight)
}

// ComputeDistribution reduces a sample set into its latency distribution.
// An empty input is a configuration error, never a zero-valued result.
func ComputeDistribution(samples []Sample) (Distribution, error) {
	if len(samples) == 0 {
		return Distribution{}, apperr.NewConfig("latency distribution requires at least one sample")
	}

	sorted := make([]time.Duration, len(samples))
	var errors int
	for i, s := range samples {
		sorted[i] = s.Elapsed
		if !s.OK() {
			errors++
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum int64
	for _, d := range sorted {
		sum += int64(d)
	}

	return Distribution{
		P50:        interpolate(sorted, 0.50),
		P95:        interpolate(sorted, 0.95),
		P99:        interpolate(sorted, 0.99),
		Min:        sorted[0],
		Mean:       time.Duration(sum / int64(len(sorted))),
		Max:        sorted[len(sorted)-1],
		Count:      len(samples),
		ErrorCount: errors,
		ErrorRate:  float64(errors) / float64(len(samples)),
	}, nil
}
