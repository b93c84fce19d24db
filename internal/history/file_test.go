package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(i int) Entry {
	return Entry{
		Stamp:   fmt.Sprintf("2026-08-25T10:%02d:00Z", i%60),
		RunID:   fmt.Sprintf("run-%04d", i),
		BaseURL: "http://localhost:8000",
		P95S:    1.0,
		Pass:    true,
	}
}

func TestFileSink_AppendAndRecent(t *testing.T) {
	sink, err := NewFileSink(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, sink.Append(ctx, entry(i)))
	}

	got, err := sink.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "run-0002", got[0].RunID, "newest first")
	assert.Equal(t, "run-0000", got[2].RunID)
}

func TestFileSink_EvictsOldestBeyondCap(t *testing.T) {
	sink, err := NewFileSink(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < maxEntries+5; i++ {
		require.NoError(t, sink.Append(ctx, entry(i)))
	}

	got, err := sink.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, maxEntries)
	assert.Equal(t, fmt.Sprintf("run-%04d", maxEntries+4), got[0].RunID)
	assert.Equal(t, "run-0005", got[len(got)-1].RunID, "first five evicted")
}

func TestFileSink_RecentLimit(t *testing.T) {
	sink, err := NewFileSink(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, sink.Append(ctx, entry(i)))
	}

	got, err := sink.Recent(ctx, 4)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "run-0009", got[0].RunID)
}

func TestFileSink_MissingFileIsEmpty(t *testing.T) {
	sink, err := NewFileSink(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)

	got, err := sink.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
