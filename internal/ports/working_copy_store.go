package ports

import (
	"context"
	"errors"

	"shared-itinerary-service/internal/domain"
)

// ErrNoWorkingCopy is returned when no candidate stop ordering is cached for
// an itinerary.
var ErrNoWorkingCopy = errors.New("no working copy for itinerary")

// WorkingCopyStore holds provisional stop orderings between matching and
// commit, keyed by itinerary id.
//
// Writes replace the entry wholesale (last writer wins); concurrent matches
// against the same itinerary simply race on which candidate survives. The
// copy only becomes durable at commit time.
type WorkingCopyStore interface {
	Get(ctx context.Context, itineraryID string) ([]domain.Stop, error)
	Set(ctx context.Context, itineraryID string, stops []domain.Stop) error
	Delete(ctx context.Context, itineraryID string) error
}
