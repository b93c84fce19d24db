package apperr_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/scoregate/scoregate/internal/apperr"
)

func invokeHandler(t *testing.T, err error) (int, map[string]string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/history.json", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	apperr.GlobalErrorHandler()(err, c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return rec.Code, body
}

func TestGlobalErrorHandler_ConfigErrorIsUnavailable(t *testing.T) {
	cause := apperr.NewConfig("postgres history sink needs PG_CONNECTION_STRING")
	wrapped := fmt.Errorf("history sink: %w", cause)

	code, body := invokeHandler(t, wrapped)

	if code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
	if !strings.Contains(body["error"], "PG_CONNECTION_STRING") {
		t.Errorf("expected the config message, got %q", body["error"])
	}
	if body["title"] != "configuration error" {
		t.Errorf("unexpected title: %q", body["title"])
	}
}

func TestGlobalErrorHandler_EchoHTTPErrorKeepsStatus(t *testing.T) {
	code, body := invokeHandler(t, echo.NewHTTPError(http.StatusNotFound, "not found"))

	if code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
	if body["error"] != "not found" {
		t.Errorf("unexpected message: %q", body["error"])
	}
}

func TestGlobalErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	code, body := invokeHandler(t, fmt.Errorf("pq: connection reset by peer"))

	if code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", code)
	}
	if body["error"] != "internal server error" {
		t.Errorf("internal details must not leak, got %q", body["error"])
	}
}
