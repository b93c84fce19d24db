package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scoregate/scoregate/internal/apperr"
)

type SinkType string

const (
	File SinkType = "file"
	ES   SinkType = "elasticsearch"
	PG   SinkType = "postgres"
)

type Config struct {
	Type SinkType
	Path string
	Es   *ESConfig
	Pg   *PGConfig
}

// LoadEnv reads sink configuration from the environment. HISTORY_SINK
// defaults to a file sink under the artifacts directory.
func LoadEnv(artifactsDir string) (*Config, error) {
	sinkType := SinkType(os.Getenv("HISTORY_SINK"))
	if sinkType == "" {
		sinkType = File
	}

	switch sinkType {
	case File:
		path := os.Getenv("HISTORY_FILE")
		if path == "" {
			path = filepath.Join(artifactsDir, "history.json")
		}
		return &Config{Type: File, Path: path}, nil

	case ES:
		cfg := &ESConfig{
			Addresses: strings.Split(os.Getenv("ES_ADDRESSES"), ","),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if cfg.Addresses[0] == "" || cfg.IndexName == "" {
			return nil, apperr.NewConfig("elasticsearch history sink needs ES_ADDRESSES and ES_INDEX_NAME")
		}
		return &Config{Type: ES, Es: cfg}, nil

	case PG:
		cfg := &PGConfig{ConnStr: os.Getenv("PG_CONNECTION_STRING")}
		if cfg.ConnStr == "" {
			return nil, apperr.NewConfig("postgres history sink needs PG_CONNECTION_STRING")
		}
		return &Config{Type: PG, Pg: cfg}, nil

	default:
		return nil, apperr.NewConfig(fmt.Sprintf(
			"invalid HISTORY_SINK %q, expected one of %v", sinkType, []SinkType{File, ES, PG}))
	}
}

// NewSink builds the configured sink implementation.
func NewSink(ctx context.Context, cfg *Config) (Sink, error) {
	switch cfg.Type {
	case File:
		return NewFileSink(cfg.Path)
	case ES:
		if cfg.Es == nil {
			return nil, apperr.NewConfig("missing elasticsearch sink config")
		}
		return NewESSink(*cfg.Es)
	case PG:
		if cfg.Pg == nil {
			return nil, apperr.NewConfig("missing postgres sink config")
		}
		return NewPGSink(ctx, *cfg.Pg)
	default:
		return nil, apperr.NewConfig(fmt.Sprintf("unsupported history sink %q", cfg.Type))
	}
}
