package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/scoregate/scoregate/internal/bench"
	"github.com/scoregate/scoregate/internal/gate"
	"github.com/scoregate/scoregate/internal/hardening"
	"github.com/scoregate/scoregate/internal/labspec"
	"github.com/scoregate/scoregate/internal/report"
	"github.com/scoregate/scoregate/internal/smoke"
	"github.com/scoregate/scoregate/internal/transport"
	"github.com/scoregate/scoregate/pkg/config/env"
)

func main() {
	_ = env.LoadDotEnv(os.Getenv("ENV"), ".env")
	cfg := parseFlags()
	ctx := context.Background()

	if cfg.FallbackUsed {
		slog.Warn("LAB_BASE_URL is not set, probing fallback target", "base_url", cfg.BaseURL)
	}

	suite := labspec.Default()
	if cfg.SuitePath != "" {
		loaded, err := labspec.LoadFromFile(cfg.SuitePath)
		if err != nil {
			slog.Error("Failed to load suite", "path", cfg.SuitePath, "error", err)
			os.Exit(1)
		}
		suite = loaded
	}

	thresholds := gate.DefaultThresholds()
	if cfg.ThresholdsPath != "" {
		loaded, err := gate.LoadThresholds(cfg.ThresholdsPath)
		if err != nil {
			slog.Error("Failed to load thresholds", "path", cfg.ThresholdsPath, "error", err)
			os.Exit(1)
		}
		thresholds = loaded
	}

	client := transport.NewClient(cfg.BaseURL, transport.WithTimeout(cfg.Timeout))

	smokeRes := smoke.NewRunner(client, suite.Probes).Run(ctx)
	slog.Info("Smoke complete", "ok", smokeRes.OK, "total", smokeRes.Total)

	hardRes := hardening.NewRunner(client, suite.Benchmark.Path, suite.Cases).Run(ctx)
	slog.Info("Hardening complete", "errors", hardRes.Errors, "cases", hardRes.N)

	benchRes, err := bench.NewRunner(client, bench.Config{
		Warmup:       thresholds.WarmupRequests,
		Runs:         cfg.BenchRuns,
		DiscardFirst: thresholds.DiscardFirstN,
		Path:         suite.Benchmark.Path,
		Payload:      suite.Benchmark.Payload,
	}).Run(ctx)
	if err != nil {
		slog.Error("Benchmark failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Benchmark complete", "n", benchRes.N, "p95_s", benchRes.P95S, "error_rate", benchRes.ErrorRate)

	verdict := gate.Evaluate(thresholds, benchRes, gate.SmokeSummary{
		OKRate: smokeRes.OKRate,
		OK:     smokeRes.OK,
		Total:  smokeRes.Total,
	})
	verdict.BaseURL = cfg.BaseURL
	verdict.FallbackUsed = cfg.FallbackUsed

	writeArtifact(smokeRes, cfg.ArtifactsDir, "smoke.json")
	writeArtifact(hardRes, cfg.ArtifactsDir, "hardening.json")
	writeArtifact(benchRes, cfg.ArtifactsDir, "benchmark.json")
	writeArtifact(verdict, cfg.ArtifactsDir, "gate.json")

	report.WriteVerdictTable(&verdict, os.Stdout)

	if verdict.Pass {
		return
	}
	if verdict.FallbackUsed {
		slog.Warn("Gate failed against fallback target, verdict is advisory")
		return
	}
	os.Exit(1)
}

func writeArtifact(v any, dir, name string) {
	path := filepath.Join(dir, name)
	if err := report.WriteJSON(v, path); err != nil {
		slog.Error("Failed to write artifact", "path", path, "error", err)
		os.Exit(1)
	}
}
