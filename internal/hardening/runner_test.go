package hardening

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoregate/scoregate/internal/labspec"
	"github.com/scoregate/scoregate/internal/transport"
)

type scriptedDoer struct {
	statuses []int
	paths    []string
	payloads []labspec.ScorePayload
}

func (s *scriptedDoer) Do(_ context.Context, _, path string, payload any) transport.Measurement {
	s.paths = append(s.paths, path)
	if p, ok := payload.(labspec.ScorePayload); ok {
		s.payloads = append(s.payloads, p)
	}
	status := 200
	if len(s.statuses) > 0 {
		status = s.statuses[0]
		s.statuses = s.statuses[1:]
	}
	return transport.Measurement{Status: status, Elapsed: time.Millisecond}
}

func TestRun_AllCasesSurvive(t *testing.T) {
	doer := &scriptedDoer{}
	res := NewRunner(doer, "", nil).Run(context.Background())

	assert.Equal(t, 4, res.N)
	assert.Zero(t, res.Errors)
	assert.InDelta(t, 0.0, res.ErrorRate, 1e-9)
	require.Len(t, res.Rows, 4)
	assert.Equal(t, "tiny", res.Rows[0].Case)

	for _, p := range doer.paths {
		assert.Equal(t, labspec.DefaultScorePath, p)
	}
}

func TestRun_CountsRejections(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{200, 500, 422, 200}}
	res := NewRunner(doer, "", nil).Run(context.Background())

	assert.Equal(t, 2, res.Errors)
	assert.InDelta(t, 0.5, res.ErrorRate, 1e-9)
}

func TestRun_SendsCasePayloads(t *testing.T) {
	doer := &scriptedDoer{}
	cases := []labspec.Case{{Name: "one", Prompt: "p", Answer: "a"}}

	res := NewRunner(doer, "/score", cases).Run(context.Background())

	assert.Equal(t, 1, res.N)
	require.Len(t, doer.payloads, 1)
	assert.Equal(t, "p", doer.payloads[0].Prompt)
	assert.Equal(t, []string{"/score"}, doer.paths)
}

func TestRun_NetworkFailureIsError(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{transport.StatusNetworkError, 200, 200, 200}}
	res := NewRunner(doer, "", nil).Run(context.Background())

	assert.Equal(t, 1, res.Errors)
	assert.InDelta(t, 0.25, res.ErrorRate, 1e-9)
}
