package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scoregate/scoregate/internal/compare"
	"github.com/scoregate/scoregate/internal/dataset"
	"github.com/scoregate/scoregate/internal/embedding"
	"github.com/scoregate/scoregate/internal/report"
	"github.com/scoregate/scoregate/internal/transport"
	"github.com/scoregate/scoregate/pkg/config/env"
)

const fallbackBaseURL = "http://localhost:8000"

func main() {
	_ = env.LoadDotEnv(os.Getenv("ENV"), ".env")

	var (
		datasetPath  string
		rerankPath   string
		artifactsDir string
		k            int
	)
	flag.StringVar(&datasetPath, "dataset", "configs/compare/dataset.jsonl", "Path to labeled JSONL dataset")
	flag.StringVar(&rerankPath, "rerank-path", "", "Override the remote rerank endpoint path")
	flag.StringVar(&artifactsDir, "artifacts", "", "Artifacts output directory (overrides ARTIFACTS_DIR)")
	flag.IntVar(&k, "k", 3, "Ranking cutoff for NDCG and MRR")
	flag.Parse()

	if artifactsDir == "" {
		artifactsDir = env.String("ARTIFACTS_DIR", "artifacts/lab")
	}
	baseURL := env.String("LAB_BASE_URL", fallbackBaseURL)

	rows, err := dataset.LoadFromFile(datasetPath)
	if err != nil {
		slog.Error("Failed to load dataset", "path", datasetPath, "error", err)
		os.Exit(1)
	}

	encoders, err := buildEncoders()
	if err != nil {
		slog.Error("Failed to build baseline encoders", "error", err)
		os.Exit(1)
	}

	client := transport.NewClient(baseURL, transport.WithTimeout(env.Seconds("LAB_TIMEOUT", 30*time.Second)))

	opts := []compare.Option{compare.WithK(k)}
	if rerankPath != "" {
		opts = append(opts, compare.WithRerankPath(rerankPath))
	}

	name := strings.TrimSuffix(filepath.Base(datasetPath), filepath.Ext(datasetPath))
	summary, err := compare.NewComparator(client, encoders, opts...).Run(context.Background(), name, rows)
	if err != nil {
		slog.Error("Comparison failed", "error", err)
		os.Exit(1)
	}
	summary.BaseURL = baseURL

	outPath := filepath.Join(artifactsDir, "baseline_compare.json")
	if err := report.WriteJSON(summary, outPath); err != nil {
		slog.Error("Failed to write comparison artifact", "path", outPath, "error", err)
		os.Exit(1)
	}

	report.WriteCompareTable(&summary, os.Stdout)
	slog.Info("Comparison written", "path", outPath)
}

// buildEncoders wires one Ollama-backed encoder per model in COMPARE_MODELS.
// An empty model list is valid: the run then measures the API alone.
func buildEncoders() ([]embedding.Encoder, error) {
	models := strings.Split(env.String("COMPARE_MODELS", ""), ",")

	var encoders []embedding.Encoder
	for _, model := range models {
		model = strings.TrimSpace(model)
		if model == "" {
			continue
		}
		client, err := embedding.NewOllamaClient(env.String("OLLAMA_BASE_URL", "http://localhost:11434"))
		if err != nil {
			return nil, err
		}
		encoders = append(encoders, embedding.NewOllamaEncoder(client, embedding.WithEncoderModel(model)))
	}
	return encoders, nil
}
