package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/scoregate/scoregate/internal/history"
)

const diagnosticsLimit = 4000

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>Score Gate Dashboard</title>
<style>
body{font-family:Arial, sans-serif;margin:28px;}
.card{border:1px solid #ddd;border-radius:12px;padding:14px;margin:14px 0;}
table{border-collapse:collapse;width:100%;}
th,td{border:1px solid #ddd;padding:8px;text-align:left;}
.code{font-family:ui-monospace, SFMono-Regular, Menlo, monospace;background:#f6f6f6;padding:2px 6px;border-radius:6px;}
</style></head><body>
<h1>Score Gate Dashboard</h1>
<div class="card">
  <b>Base URL:</b> <span class="code">{{.BaseURL}}</span><br/>
  <b>Last update:</b> <span class="code">{{.Stamp}}</span>
</div>

<div class="card">
  <h2>Latency history (end-to-end)</h2>
  <table>
    <thead><tr><th>timestamp</th><th>run</th><th>p95_s</th><th>p99_s</th><th>error_rate</th><th>gate</th></tr></thead>
    <tbody>
    {{range .History}}<tr><td>{{.Stamp}}</td><td>{{.RunID}}</td><td>{{printf "%.3f" .P95S}}</td><td>{{printf "%.3f" .P99S}}</td><td>{{printf "%.4f" .ErrorRate}}</td><td>{{if .Pass}}PASS{{else}}FAIL{{end}}</td></tr>
    {{end}}</tbody>
  </table>
</div>

<div class="card">
  <h2>Latest baseline comparison</h2>
  <pre class="code">{{.Baseline}}</pre>
</div>

<div class="card">
  <h2>Smoke + Hardening (latest)</h2>
  <pre class="code">{{.Diagnostics}}</pre>
</div>

</body></html>
`))

type dashboardData struct {
	BaseURL     string
	Stamp       string
	History     []history.Entry
	Baseline    string
	Diagnostics string
}

// Dashboard bundles the latest artifacts with run history for rendering.
type Dashboard struct {
	BaseURL   string
	Stamp     string
	History   []history.Entry
	Baseline  any
	Smoke     any
	Hardening any
}

// RenderHTML writes a standalone dashboard page. No scripts, no external
// assets; the page must work when served from a bare static host.
func RenderHTML(d Dashboard, w io.Writer) error {
	baseline, err := json.MarshalIndent(d.Baseline, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal baseline section: %w", err)
	}

	diag, err := json.MarshalIndent(map[string]any{
		"smoke":     d.Smoke,
		"hardening": d.Hardening,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal diagnostics section: %w", err)
	}
	if len(diag) > diagnosticsLimit {
		diag = diag[:diagnosticsLimit]
	}

	return dashboardTmpl.Execute(w, dashboardData{
		BaseURL:     d.BaseURL,
		Stamp:       d.Stamp,
		History:     d.History,
		Baseline:    string(baseline),
		Diagnostics: string(diag),
	})
}
