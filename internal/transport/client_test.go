package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDo_JSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"score": 0.9}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	m := client.Post(context.Background(), "/evaluate", map[string]string{"prompt": "hi", "answer": "ok"})

	assert.Equal(t, http.StatusOK, m.Status)
	assert.True(t, m.OK())
	assert.Equal(t, "object", m.BodyKind())
	assert.Greater(t, m.Elapsed, time.Duration(0))

	var body struct {
		Score float64 `json:"score"`
	}
	require.NoError(t, m.Decode(&body))
	assert.InDelta(t, 0.9, body.Score, 1e-9)
}

func TestClientDo_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	m := client.Get(context.Background(), "/health")

	assert.Equal(t, http.StatusBadGateway, m.Status)
	assert.False(t, m.OK())
	assert.Equal(t, "text", m.BodyKind())
	assert.Equal(t, "upstream exploded", m.Body)
}

func TestClientDo_NetworkFailureSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable from here on

	client := NewClient(srv.URL)
	m := client.Get(context.Background(), "/")

	assert.Equal(t, StatusNetworkError, m.Status)
	assert.False(t, m.OK())
	assert.NotEmpty(t, m.BodyPreview(180))
}

func TestClientDo_TimeoutIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithTimeout(20*time.Millisecond))
	m := client.Get(context.Background(), "/")

	assert.Equal(t, StatusNetworkError, m.Status)
	assert.Greater(t, m.Elapsed, time.Duration(0))
}

func TestMeasurement_BodyPreviewTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 100; i++ {
			_, _ = w.Write([]byte("0123456789"))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	m := client.Get(context.Background(), "/")

	assert.Len(t, m.BodyPreview(180), 180)
}

func TestMeasurement_BodyKinds(t *testing.T) {
	tests := []struct {
		body string
		kind string
	}{
		{`{"a":1}`, "object"},
		{`[1,2]`, "array"},
		{`"hello"`, "string"},
		{`3.14`, "number"},
		{`true`, "bool"},
		{`null`, "null"},
		{`not json`, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			m := NewClient(srv.URL).Get(context.Background(), "/")
			assert.Equal(t, tt.kind, m.BodyKind())
		})
	}
}
