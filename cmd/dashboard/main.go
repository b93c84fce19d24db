package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scoregate/scoregate/internal/gate"
	"github.com/scoregate/scoregate/internal/history"
	"github.com/scoregate/scoregate/internal/report"
	"github.com/scoregate/scoregate/internal/server"
	"github.com/scoregate/scoregate/pkg/config/env"
)

func main() {
	_ = env.LoadDotEnv(os.Getenv("ENV"), ".env")

	var (
		mode         string
		artifactsDir string
		outDir       string
	)
	flag.StringVar(&mode, "mode", "build", "Run mode: build or serve")
	flag.StringVar(&artifactsDir, "artifacts", "", "Artifacts input directory (overrides ARTIFACTS_DIR)")
	flag.StringVar(&outDir, "out", "", "Dashboard site output directory (overrides DASHBOARD_OUT)")
	flag.Parse()

	if artifactsDir == "" {
		artifactsDir = env.String("ARTIFACTS_DIR", "artifacts/lab")
	}
	if outDir == "" {
		outDir = env.String("DASHBOARD_OUT", "dashboard_site")
	}

	switch mode {
	case "build":
		runBuild(artifactsDir, outDir)
	case "serve":
		runServe(outDir)
	default:
		slog.Error("Unknown mode", "mode", mode)
		os.Exit(1)
	}
}

func runBuild(artifactsDir, outDir string) {
	ctx := context.Background()

	var verdict gate.Verdict
	gateFound := loadArtifact(filepath.Join(artifactsDir, "gate.json"), &verdict)

	var smokeRes, hardRes, comp map[string]any
	loadArtifact(filepath.Join(artifactsDir, "smoke.json"), &smokeRes)
	loadArtifact(filepath.Join(artifactsDir, "hardening.json"), &hardRes)
	loadArtifact(filepath.Join(artifactsDir, "baseline_compare.json"), &comp)

	sinkCfg, err := history.LoadEnv(outDir)
	if err != nil {
		slog.Error("Failed to load history sink config", "error", err)
		os.Exit(1)
	}
	sink, err := history.NewSink(ctx, sinkCfg)
	if err != nil {
		slog.Error("Failed to create history sink", "error", err)
		os.Exit(1)
	}
	defer sink.Close()

	stamp := time.Now().UTC().Format(time.RFC3339)
	if gateFound {
		if err := sink.Append(ctx, buildEntry(stamp, verdict, comp)); err != nil {
			slog.Error("Failed to append history entry", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("No gate artifact found, building dashboard from history only", "dir", artifactsDir)
	}

	entries, err := sink.Recent(ctx, 0)
	if err != nil {
		slog.Error("Failed to read history", "error", err)
		os.Exit(1)
	}

	if err := publishHistory(sinkCfg, entries, outDir); err != nil {
		slog.Error("Failed to write history artifact", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		slog.Error("Failed to create output directory", "dir", outDir, "error", err)
		os.Exit(1)
	}
	f, err := os.Create(filepath.Join(outDir, "index.html"))
	if err != nil {
		slog.Error("Failed to create dashboard page", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	var baseline any
	if comp != nil {
		baseline = comp["metrics"]
	}
	if err := report.RenderHTML(report.Dashboard{
		BaseURL:   verdict.BaseURL,
		Stamp:     stamp,
		History:   entries,
		Baseline:  baseline,
		Smoke:     smokeRes,
		Hardening: hardRes,
	}, f); err != nil {
		slog.Error("Failed to render dashboard", "error", err)
		os.Exit(1)
	}

	slog.Info("Dashboard built", "dir", outDir, "runs", len(entries))
}

// publishHistory writes the newest-first history view into the site. When
// the file sink's own store already lives at that path, the store is the
// published file; overwriting it with the view would reorder entries and
// make the sink evict the wrong runs at the cap.
func publishHistory(sinkCfg *history.Config, entries []history.Entry, outDir string) error {
	viewPath := filepath.Join(outDir, "history.json")
	if sinkCfg.Type == history.File && sinkCfg.Path == viewPath {
		return nil
	}
	return report.WriteJSON(entries, viewPath)
}

func runServe(outDir string) {
	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	sinkCfg, err := history.LoadEnv(outDir)
	if err != nil {
		slog.Error("Failed to load history sink config", "error", err)
		os.Exit(1)
	}
	sink, err := history.NewSink(context.Background(), sinkCfg)
	if err != nil {
		slog.Error("Failed to create history sink", "error", err)
		os.Exit(1)
	}
	defer sink.Close()

	e := echo.New()
	e.HideBanner = true
	s := server.NewServer(e, cfg)

	e.GET("/history.json", func(c echo.Context) error {
		entries, err := sink.Recent(c.Request().Context(), 0)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, entries)
	})
	e.Static("/", outDir)

	if err := s.Start(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func buildEntry(stamp string, v gate.Verdict, comp map[string]any) history.Entry {
	e := history.Entry{
		Stamp:     stamp,
		RunID:     env.String("GITHUB_RUN_ID", v.RunID),
		SHA:       shortSHA(os.Getenv("GITHUB_SHA")),
		BaseURL:   v.BaseURL,
		P95S:      v.Measured.P95S,
		P99S:      v.Measured.P99S,
		ErrorRate: v.Measured.ErrorRate,
		Pass:      v.Pass,
	}

	if metrics, ok := comp["metrics"].(map[string]any); ok {
		e.Metrics = make(map[string]float64)
		for ranker, raw := range metrics {
			if fields, ok := raw.(map[string]any); ok {
				if ndcg, ok := fields["ndcg_mean"].(float64); ok {
					e.Metrics[ranker+"/ndcg_mean"] = ndcg
				}
				if mrr, ok := fields["mrr_mean"].(float64); ok {
					e.Metrics[ranker+"/mrr_mean"] = mrr
				}
			}
		}
	}
	return e
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func loadArtifact(path string, v any) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		slog.Warn("Skipping malformed artifact", "path", path, "error", err)
		return false
	}
	return true
}
