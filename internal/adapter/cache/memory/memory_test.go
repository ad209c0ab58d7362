package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	store := New()
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	val, found, err := store.Get(ctx, "k")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), val)
}

func TestGetMissing(t *testing.T) {
	store := New()
	defer store.Close()

	_, found, err := store.Get(context.Background(), "absent")

	require.NoError(t, err)
	assert.False(t, found)
}

func TestEntryExpires(t *testing.T) {
	store := New()
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 20*time.Millisecond))

	time.Sleep(30 * time.Millisecond)

	_, found, err := store.Get(ctx, "k")

	require.NoError(t, err)
	assert.False(t, found)
}

func TestIncrementCountsWithinWindow(t *testing.T) {
	store := New()
	defer store.Close()

	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.Increment(ctx, "counter", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestIncrementKeepsTheOriginalWindow(t *testing.T) {
	store := New()
	defer store.Close()

	ctx := context.Background()

	_, err := store.Increment(ctx, "counter", 30*time.Millisecond)
	require.NoError(t, err)

	// Later hits must not extend the window.
	time.Sleep(20 * time.Millisecond)
	_, err = store.Increment(ctx, "counter", 30*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	count, err := store.Increment(ctx, "counter", 30*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "window should have reset")
}

func TestDelete(t *testing.T) {
	store := New()
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, store.Delete(ctx, "k"))

	_, found, _ := store.Get(ctx, "k")
	assert.False(t, found)
}
