package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/ports"
)

func TestVehicleTrackerRoundtrip(t *testing.T) {
	_, client := newTestRedis(t)
	tracker := NewRedisVehicleTracker(client, time.Minute)
	ctx := context.Background()

	pos := domain.Coordinates{Lon: 106.6579, Lat: 10.7721}
	require.NoError(t, tracker.RecordLocation(ctx, "veh-1", pos))

	got, err := tracker.LastVehicleLocation(ctx, "veh-1")
	require.NoError(t, err)
	assert.Equal(t, pos, got)
}

func TestVehicleTrackerUnknownVehicle(t *testing.T) {
	_, client := newTestRedis(t)
	tracker := NewRedisVehicleTracker(client, time.Minute)

	_, err := tracker.LastVehicleLocation(context.Background(), "veh-ghost")
	assert.ErrorIs(t, err, ports.ErrLocationUnavailable)
}

func TestVehicleTrackerOverwritesFix(t *testing.T) {
	_, client := newTestRedis(t)
	tracker := NewRedisVehicleTracker(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, tracker.RecordLocation(ctx, "veh-1", domain.Coordinates{Lon: 106.65, Lat: 10.76}))
	latest := domain.Coordinates{Lon: 106.70, Lat: 10.78}
	require.NoError(t, tracker.RecordLocation(ctx, "veh-1", latest))

	got, err := tracker.LastVehicleLocation(ctx, "veh-1")
	require.NoError(t, err)
	assert.Equal(t, latest, got)
}

func TestVehicleTrackerFixAgesOut(t *testing.T) {
	mr, client := newTestRedis(t)
	tracker := NewRedisVehicleTracker(client, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, tracker.RecordLocation(ctx, "veh-1", domain.Coordinates{Lon: 106.65, Lat: 10.76}))
	mr.FastForward(time.Minute)

	_, err := tracker.LastVehicleLocation(ctx, "veh-1")
	assert.ErrorIs(t, err, ports.ErrLocationUnavailable, "stale fixes must read as untrackable")
}
