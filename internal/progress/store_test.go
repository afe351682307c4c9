package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFailedUsesCrashSentinel(t *testing.T) {
	store := New(nil, time.Minute)
	require.NoError(t, store.SetFailed(context.Background(), "p1", errors.New("boom")))

	rec, ok, err := store.Get(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, rec.Status)
	assert.Equal(t, -1, rec.Progress)
	assert.Equal(t, "boom", rec.Error)
}

func TestSetInfeasiblePreservesProgressAndUsesSentinel(t *testing.T) {
	store := New(nil, time.Minute)
	require.NoError(t, store.SetProgress(context.Background(), "p2", 72))
	require.NoError(t, store.SetInfeasible(context.Background(), "p2", 72))

	rec, ok, err := store.Get(context.Background(), "p2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, rec.Status)
	assert.Equal(t, 72, rec.Progress)
	assert.Equal(t, Impossible, rec.Error)
	assert.NotEqual(t, -1, rec.Progress)
}
