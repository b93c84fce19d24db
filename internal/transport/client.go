package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/scoregate/scoregate/internal/metrics"
)

// StatusNetworkError is the sentinel status recorded when a request never
// produced an HTTP response (connection failure or timeout).
const StatusNetworkError = 0

// Measurement is the outcome of a single request/response exchange.
// Immutable once recorded.
type Measurement struct {
	Status  int           `json:"status"`
	Body    any           `json:"body,omitempty"`
	Elapsed time.Duration `json:"elapsed"`

	raw []byte
}

// NewMeasurement builds a measurement from an already decoded body. Fakes
// use it; the real client records measurements straight off the wire.
func NewMeasurement(status int, body any, elapsed time.Duration) Measurement {
	raw, err := json.Marshal(body)
	if err != nil {
		raw = nil
	}
	return Measurement{Status: status, Body: body, Elapsed: elapsed, raw: raw}
}

func (m Measurement) OK() bool {
	return m.Status == http.StatusOK
}

// Decode unmarshals the raw response body into v.
func (m Measurement) Decode(v any) error {
	return json.Unmarshal(m.raw, v)
}

// Sample projects the measurement into the statistics layer.
func (m Measurement) Sample() metrics.Sample {
	return metrics.Sample{Status: m.Status, Elapsed: m.Elapsed}
}

// BodyKind is a coarse type tag of the response body: object, array, string,
// number, bool, null, or text for bodies that were not valid JSON.
func (m Measurement) BodyKind() string {
	switch m.Body.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		if json.Valid(m.raw) {
			return "string"
		}
		return "text"
	case float64:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return "text"
	}
}

// BodyPreview returns the raw body truncated to n bytes, for diagnostics.
func (m Measurement) BodyPreview(n int) string {
	if len(m.raw) <= n {
		return string(m.raw)
	}
	return string(m.raw[:n])
}

// Doer performs one request/response exchange. Network failures surface as
// measurements with the sentinel status, never as errors.
type Doer interface {
	Do(ctx context.Context, method, path string, payload any) Measurement
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

const defaultTimeout = 30 * time.Second

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Do issues one request and records its outcome. Any failure before a
// response body is read is captured as a sentinel-status measurement with the
// elapsed time up to the failure.
func (c *Client) Do(ctx context.Context, method, path string, payload any) Measurement {
	start := time.Now()

	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return failure(err, time.Since(start))
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return failure(err, time.Since(start))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return failure(err, time.Since(start))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return failure(err, elapsed)
	}

	return Measurement{
		Status:  resp.StatusCode,
		Body:    parseBody(raw),
		Elapsed: elapsed,
		raw:     raw,
	}
}

func (c *Client) Get(ctx context.Context, path string) Measurement {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, payload any) Measurement {
	return c.Do(ctx, http.MethodPost, path, payload)
}

func failure(err error, elapsed time.Duration) Measurement {
	msg := err.Error()
	return Measurement{
		Status:  StatusNetworkError,
		Body:    msg,
		Elapsed: elapsed,
		raw:     []byte(msg),
	}
}

func parseBody(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
