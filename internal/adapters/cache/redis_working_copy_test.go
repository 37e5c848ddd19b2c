package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/ports"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func sampleStops() []domain.Stop {
	return []domain.Stop{
		{Order: 1, PointType: domain.StartPoint, TripID: domain.TempTripID, Point: domain.GeoPoint{Lat: 10.78, Lng: 106.70, Address: "pickup"}},
		{Order: 2, PointType: domain.EndPoint, TripID: "trip-a", Point: domain.GeoPoint{Lat: 10.80, Lng: 106.72, Address: "mall"}, IsPass: false},
		{Order: 3, PointType: domain.EndPoint, TripID: domain.TempTripID, Point: domain.GeoPoint{Lat: 10.81, Lng: 106.71, Address: "dropoff"}},
	}
}

func TestWorkingCopyRoundtrip(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisWorkingCopyStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "itn-1", sampleStops()))

	got, err := store.Get(ctx, "itn-1")
	require.NoError(t, err)
	assert.Equal(t, sampleStops(), got)
}

func TestWorkingCopyGetMissing(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisWorkingCopyStore(client, time.Minute)

	_, err := store.Get(context.Background(), "itn-missing")
	assert.ErrorIs(t, err, ports.ErrNoWorkingCopy)
}

func TestWorkingCopyLastWriterWins(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisWorkingCopyStore(client, time.Minute)
	ctx := context.Background()

	first := sampleStops()
	require.NoError(t, store.Set(ctx, "itn-1", first))

	second := []domain.Stop{
		{Order: 1, PointType: domain.StartPoint, TripID: "trip-z", Point: domain.GeoPoint{Lat: 10.75, Lng: 106.68}},
	}
	require.NoError(t, store.Set(ctx, "itn-1", second))

	got, err := store.Get(ctx, "itn-1")
	require.NoError(t, err)
	assert.Equal(t, second, got, "overwrite must replace the value wholesale")
}

func TestWorkingCopyDelete(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisWorkingCopyStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "itn-1", sampleStops()))
	require.NoError(t, store.Delete(ctx, "itn-1"))

	_, err := store.Get(ctx, "itn-1")
	assert.ErrorIs(t, err, ports.ErrNoWorkingCopy)

	// Deleting an absent key stays quiet.
	assert.NoError(t, store.Delete(ctx, "itn-1"))
}

func TestWorkingCopyExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisWorkingCopyStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "itn-1", sampleStops()))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "itn-1")
	assert.ErrorIs(t, err, ports.ErrNoWorkingCopy)
}
