package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/fritter-signals/internal/models"
)

func setupTestRedis(t *testing.T) (WarningCache, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	c, err := NewRedisCache("redis://"+s.Addr(), "test:cw:", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c, s
}

func sampleWarning(votes int) *models.ControversyWarning {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	w := &models.ControversyWarning{
		ID:         "w-1",
		PostID:     uuid.MustParse("6f1a2b3c-0000-4000-8000-000000000001"),
		Voters:     []uuid.UUID{},
		CreatedAt:  at,
		ModifiedAt: at,
	}
	for i := range votes {
		w.Voters = append(w.Voters, uuid.New())
		w.VoteCount++
		w.ModifiedAt = at.Add(time.Duration(i+1) * time.Second)
	}
	w.Active = w.VoteCount >= 3

	return w
}

func TestNewRedisCache_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedisCache("://nope", "", time.Minute)
	require.Error(t, err)
}

func TestNewRedisCache_PingFails(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	_, err := NewRedisCache("redis://"+addr, "", time.Minute)
	require.Error(t, err)
}

func TestGet_Miss(t *testing.T) {
	c, _ := setupTestRedis(t)

	got, ok, err := c.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, got)
}

func TestSetGet_RoundTrip(t *testing.T) {
	c, s := setupTestRedis(t)
	ctx := context.Background()

	for _, votes := range []int{0, 3} {
		w := sampleWarning(votes)
		s.FlushAll()
		require.NoError(t, c.Set(ctx, w))

		got, ok, err := c.Get(ctx, w.PostID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, *w, *got)
	}

	require.True(t, s.Exists("test:cw:6f1a2b3c-0000-4000-8000-000000000001"))
	require.Equal(t, time.Minute, s.TTL("test:cw:6f1a2b3c-0000-4000-8000-000000000001"))
}

// TestSet_StaleIgnored — запись с меньшим числом голосов не перетирает более свежую.
func TestSet_StaleIgnored(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	fresh := sampleWarning(4)
	stale := sampleWarning(2)

	require.NoError(t, c.Set(ctx, fresh))
	require.NoError(t, c.Set(ctx, stale))

	got, ok, err := c.Get(ctx, fresh.PostID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 4, got.VoteCount)
	require.True(t, got.Active)
}

func TestSet_Expires(t *testing.T) {
	c, s := setupTestRedis(t)
	ctx := context.Background()

	w := sampleWarning(1)
	require.NoError(t, c.Set(ctx, w))

	s.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, w.PostID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDelete(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	w := sampleWarning(1)
	require.NoError(t, c.Set(ctx, w))
	require.NoError(t, c.Delete(ctx, w.PostID))

	_, ok, err := c.Get(ctx, w.PostID)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Delete(ctx, w.PostID))
}
