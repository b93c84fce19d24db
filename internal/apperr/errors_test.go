package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/scoregate/scoregate/internal/apperr"
)

func TestNewConfig(t *testing.T) {
	err := apperr.NewConfig("benchmark sample count must be positive")

	if err.Error() != "benchmark sample count must be positive" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewConfigWrap(t *testing.T) {
	inner := fmt.Errorf("open thresholds.json: no such file")
	err := apperr.NewConfigWrap("load thresholds", inner)

	if err.Error() != "load thresholds: open thresholds.json: no such file" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestConfigError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewConfig("quantile requires at least one sample")

	wrapped := fmt.Errorf("benchmark: %w", original)
	doubleWrapped := fmt.Errorf("lab run: %w", wrapped)

	var ce *apperr.ConfigError
	if !errors.As(doubleWrapped, &ce) {
		t.Fatal("errors.As should find ConfigError through double wrapping")
	}
	if ce.Message != "quantile requires at least one sample" {
		t.Errorf("unexpected message: %q", ce.Message)
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("connection refused")
	wrapped := fmt.Errorf("rerank request: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
}
