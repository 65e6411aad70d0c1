package cache

import (
	"context"
	"testing"
	"time"

	dom "taskboard/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client
}

func TestTaskCache_RoundTrip(t *testing.T) {
	c := NewTaskCache(setupTestRedis(t), time.Minute)
	ctx := context.Background()

	list := []dom.Task{
		{ID: 2, UserID: 5, Title: "second", Status: dom.StatusInProgress},
		{ID: 1, UserID: 5, Title: "first", Status: dom.StatusPending},
	}

	require.NoError(t, c.SetList(ctx, 5, list))

	got, err := c.GetList(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, list[0].ID, got[0].ID)
	assert.Equal(t, list[0].Title, got[0].Title)
	assert.Equal(t, list[1].Status, got[1].Status)
}

func TestTaskCache_MissReturnsNil(t *testing.T) {
	c := NewTaskCache(setupTestRedis(t), time.Minute)

	got, err := c.GetList(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTaskCache_EmptyListIsAHit(t *testing.T) {
	c := NewTaskCache(setupTestRedis(t), time.Minute)
	ctx := context.Background()

	// A user with zero tasks stores a nil slice; reading it back must be a
	// hit (non-nil empty list), not a miss that falls through to the store.
	require.NoError(t, c.SetList(ctx, 5, nil))

	got, err := c.GetList(ctx, 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTaskCache_PerUserIsolation(t *testing.T) {
	c := NewTaskCache(setupTestRedis(t), time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, 5, []dom.Task{{ID: 1, UserID: 5, Title: "mine"}}))

	// Another user's cache stays cold.
	got, err := c.GetList(ctx, 6)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTaskCache_Invalidate(t *testing.T) {
	c := NewTaskCache(setupTestRedis(t), time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, 5, []dom.Task{{ID: 1, UserID: 5, Title: "stale"}}))
	require.NoError(t, c.SetList(ctx, 6, []dom.Task{{ID: 2, UserID: 6, Title: "other"}}))

	require.NoError(t, c.Invalidate(ctx, 5))

	got, err := c.GetList(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, got, "invalidated list must miss")

	other, err := c.GetList(ctx, 6)
	require.NoError(t, err)
	assert.NotNil(t, other, "other users' entries must survive")
}
