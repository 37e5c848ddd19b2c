package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/ports"
)

// RedisVehicleTracker stores each vehicle's last reported position under a
// TTL, so stale fixes age out and the vehicle shows up as untrackable.
type RedisVehicleTracker struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisVehicleTracker(client *redis.Client, ttl time.Duration) *RedisVehicleTracker {
	return &RedisVehicleTracker{Client: client, TTL: ttl}
}

type storedLocation struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}

func locationKey(vehicleID string) string {
	return "vehicle:location:" + vehicleID
}

// RecordLocation overwrites the vehicle's last known position.
func (t *RedisVehicleTracker) RecordLocation(ctx context.Context, vehicleID string, pos domain.Coordinates) error {
	b, err := json.Marshal(storedLocation{Lat: pos.Lat, Lng: pos.Lon, RecordedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("record location %s: marshal: %w", vehicleID, err)
	}

	if err := t.Client.Set(ctx, locationKey(vehicleID), b, t.TTL).Err(); err != nil {
		return fmt.Errorf("record location %s: %w", vehicleID, err)
	}
	return nil
}

func (t *RedisVehicleTracker) LastVehicleLocation(ctx context.Context, vehicleID string) (domain.Coordinates, error) {
	b, err := t.Client.Get(ctx, locationKey(vehicleID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinates{}, fmt.Errorf("vehicle %s: %w", vehicleID, ports.ErrLocationUnavailable)
	}
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("last location %s: %w", vehicleID, err)
	}

	var loc storedLocation
	if err := json.Unmarshal(b, &loc); err != nil {
		return domain.Coordinates{}, fmt.Errorf("last location %s: unmarshal: %w", vehicleID, err)
	}

	return domain.Coordinates{Lat: loc.Lat, Lon: loc.Lng}, nil
}
