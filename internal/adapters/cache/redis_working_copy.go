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

// RedisWorkingCopyStore keeps candidate stop orderings in Redis, one JSON
// value per itinerary id. Set replaces the value wholesale, which gives the
// last-writer-wins semantics the matcher relies on.
type RedisWorkingCopyStore struct {
	Client *redis.Client
	// TTL bounds how long an uncommitted candidate survives. Zero keeps
	// entries until overwritten or deleted.
	TTL time.Duration
}

func NewRedisWorkingCopyStore(client *redis.Client, ttl time.Duration) *RedisWorkingCopyStore {
	return &RedisWorkingCopyStore{Client: client, TTL: ttl}
}

type storedStop struct {
	Order     int              `json:"order"`
	PointType domain.PointType `json:"point_type"`
	TripID    domain.TripID    `json:"trip_id"`
	Lat       float64          `json:"lat"`
	Lng       float64          `json:"lng"`
	Address   string           `json:"address"`
	IsPass    bool             `json:"is_pass"`
	IsCancel  bool             `json:"is_cancel"`
}

func workingCopyKey(itineraryID string) string {
	return "itinerary:working:" + itineraryID
}

func (s *RedisWorkingCopyStore) Set(ctx context.Context, itineraryID string, stops []domain.Stop) error {
	value := make([]storedStop, 0, len(stops))
	for _, st := range stops {
		value = append(value, storedStop{
			Order:     st.Order,
			PointType: st.PointType,
			TripID:    st.TripID,
			Lat:       st.Point.Lat,
			Lng:       st.Point.Lng,
			Address:   st.Point.Address,
			IsPass:    st.IsPass,
			IsCancel:  st.IsCancel,
		})
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("set working copy %s: marshal: %w", itineraryID, err)
	}

	if err := s.Client.Set(ctx, workingCopyKey(itineraryID), b, s.TTL).Err(); err != nil {
		return fmt.Errorf("set working copy %s: %w", itineraryID, err)
	}
	return nil
}

func (s *RedisWorkingCopyStore) Get(ctx context.Context, itineraryID string) ([]domain.Stop, error) {
	b, err := s.Client.Get(ctx, workingCopyKey(itineraryID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get working copy %s: %w", itineraryID, ports.ErrNoWorkingCopy)
	}
	if err != nil {
		return nil, fmt.Errorf("get working copy %s: %w", itineraryID, err)
	}

	var value []storedStop
	if err := json.Unmarshal(b, &value); err != nil {
		return nil, fmt.Errorf("get working copy %s: unmarshal: %w", itineraryID, err)
	}

	stops := make([]domain.Stop, 0, len(value))
	for _, st := range value {
		stops = append(stops, domain.Stop{
			Order:     st.Order,
			PointType: st.PointType,
			TripID:    st.TripID,
			Point:     domain.GeoPoint{Lat: st.Lat, Lng: st.Lng, Address: st.Address},
			IsPass:    st.IsPass,
			IsCancel:  st.IsCancel,
		})
	}
	return stops, nil
}

func (s *RedisWorkingCopyStore) Delete(ctx context.Context, itineraryID string) error {
	if err := s.Client.Del(ctx, workingCopyKey(itineraryID)).Err(); err != nil {
		return fmt.Errorf("delete working copy %s: %w", itineraryID, err)
	}
	return nil
}
