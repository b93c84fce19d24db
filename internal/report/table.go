package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/scoregate/scoregate/internal/compare"
	"github.com/scoregate/scoregate/internal/gate"
)

// WriteVerdictTable prints a run verdict for terminal and CI log consumption.
func WriteVerdictTable(v *gate.Verdict, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Quality Gate ===\n\n")
	fmt.Fprintf(tw, "Run\t%s\n", v.RunID)
	fmt.Fprintf(tw, "Target\t%s\n", v.BaseURL)
	fmt.Fprintf(tw, "Generated\t%s\n\n", v.GeneratedAt)

	header := []string{"Criterion", "Measured", "Threshold", "Status"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, strings.Join([]string{"---", "---", "---", "---"}, "\t"))

	fmt.Fprintf(tw, "p95\t%.3fs\t<= %.3fs\t%s\n", v.Measured.P95S, v.Thresholds.P95SMax, v.Gate["p95"])
	if v.Thresholds.P99SMax != nil {
		fmt.Fprintf(tw, "p99\t%.3fs\t<= %.3fs\t%s\n", v.Measured.P99S, *v.Thresholds.P99SMax, v.Gate["p99"])
	}
	fmt.Fprintf(tw, "error_rate\t%.4f\t<= %.4f\t%s\n", v.Measured.ErrorRate, v.Thresholds.ErrorRateMax, v.Gate["error_rate"])
	fmt.Fprintf(tw, "smoke_ok_rate\t%.2f\t>= %.2f\t%s\n", v.Smoke.OKRate, v.Thresholds.MinOKRateSmoke, v.Gate["smoke_ok_rate"])

	fmt.Fprintln(tw)
	if v.Pass {
		fmt.Fprintln(tw, "Result\tPASS")
	} else {
		fmt.Fprintln(tw, "Result\tFAIL")
	}
	if v.FallbackUsed {
		fmt.Fprintln(tw, "Note\tfallback target used, verdict is advisory")
	}

	tw.Flush()
}

// WriteCompareTable prints a ranking comparison, remote API first, then
// baselines sorted by name.
func WriteCompareTable(s *compare.Summary, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Ranking Comparison (dataset %s, %d queries) ===\n\n", s.Dataset, s.NQueries)

	header := []string{"Ranker", fmt.Sprintf("NDCG@%d", s.K), fmt.Sprintf("MRR@%d", s.K), "Mean", "p95"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, strings.Join([]string{"---", "---", "---", "---", "---"}, "\t"))

	names := make([]string, 0, len(s.Metrics))
	for name := range s.Metrics {
		if name != "api" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := s.Metrics["api"]; ok {
		names = append([]string{"api"}, names...)
	}

	for _, name := range names {
		m := s.Metrics[name]
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%s\t%s\n",
			name, m.NDCGMean, m.MRRMean, fmtSeconds(m.LatencyMeanS), fmtSeconds(m.LatencyP95S))
	}

	fmt.Fprintln(tw)
	tw.Flush()
}

func fmtSeconds(s *float64) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%.3fs", *s)
}
