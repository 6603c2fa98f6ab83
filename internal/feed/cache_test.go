package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbros/bet-settlement-platform/internal/fixture"
)

type countingFetcher struct {
	calls        int
	observations []fixture.Observation
	err          error
}

func (c *countingFetcher) FetchToday(ctx context.Context) ([]fixture.Observation, error) {
	c.calls++
	return c.observations, c.err
}

func newTestCache(t *testing.T, inner Fetcher) (*CachedFeed, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCachedFeed(inner, client, 5*time.Minute), mr
}

func TestCachedFeedServesSecondCallFromCache(t *testing.T) {
	inner := &countingFetcher{observations: []fixture.Observation{
		{League: "Premier League", Home: "Arsenal", Away: "Chelsea", Status: fixture.StatusScheduled},
	}}
	cached, _ := newTestCache(t, inner)

	first, err := cached.FetchToday(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := cached.FetchToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// a segunda chamada sai do Redis, não do feed
	assert.Equal(t, 1, inner.calls)
}

func TestCachedFeedCorruptedEntryRefetches(t *testing.T) {
	inner := &countingFetcher{observations: []fixture.Observation{
		{League: "Premier League", Home: "Arsenal", Away: "Chelsea", Status: fixture.StatusFinished},
	}}
	cached, mr := newTestCache(t, inner)

	k := key(time.Now().UTC())
	require.NoError(t, mr.Set(k, "{not json"))

	observations, err := cached.FetchToday(context.Background())
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Equal(t, 1, inner.calls)

	// a entrada corrompida foi sobrescrita pelo resultado fresco
	raw, err := mr.Get(k)
	require.NoError(t, err)
	assert.Contains(t, raw, "Arsenal")
}

func TestCachedFeedInnerErrorNotCached(t *testing.T) {
	inner := &countingFetcher{err: errors.New("feed down")}
	cached, mr := newTestCache(t, inner)

	_, err := cached.FetchToday(context.Background())
	require.Error(t, err)
	assert.False(t, mr.Exists(key(time.Now().UTC())))

	_, err = cached.FetchToday(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}
