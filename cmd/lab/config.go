package main

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/scoregate/scoregate/pkg/config/env"
)

// fallbackBaseURL is probed when LAB_BASE_URL is unset. A run against the
// fallback still executes fully, but its gate verdict is advisory.
const fallbackBaseURL = "http://localhost:8000"

const (
	defaultBenchRuns = 30
	defaultTimeout   = 30 * time.Second
)

type cliConfig struct {
	SuitePath      string
	ThresholdsPath string
	ArtifactsDir   string

	BaseURL      string
	FallbackUsed bool
	Timeout      time.Duration
	BenchRuns    int
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.SuitePath, "suite", "", "Path to lab suite YAML (built-in suite when empty)")
	flag.StringVar(&cfg.ThresholdsPath, "thresholds", "", "Path to gate thresholds JSON (built-in defaults when empty)")
	flag.StringVar(&cfg.ArtifactsDir, "artifacts", "", "Artifacts output directory (overrides ARTIFACTS_DIR)")

	flag.Parse()

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("LAB_BASE_URL")), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = fallbackBaseURL
		cfg.FallbackUsed = true
	}

	if cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = env.String("ARTIFACTS_DIR", "artifacts/lab")
	}
	cfg.Timeout = env.Seconds("LAB_TIMEOUT", defaultTimeout)
	cfg.BenchRuns = env.Int("LAB_BENCH_N", defaultBenchRuns)

	return cfg
}
