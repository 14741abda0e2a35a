package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSharedReportsRecheckHit(t *testing.T) {
	t.Parallel()

	store := New(time.Minute, WithSingleFlight(true))
	key := ViewKey("genre_month")
	// filled by another flight after this caller's first lookup missed
	store.Put(key, []string{"pop"})

	calls := 0
	value, hit, err := fetchShared(t.Context(), store, key, func(context.Context) ([]string, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"pop"}, value)
	assert.Equal(t, 0, calls)
}
