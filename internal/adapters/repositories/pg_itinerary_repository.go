package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/platform/obs"
	"shared-itinerary-service/internal/ports"
)

// Postgres-backed implementation of the ItineraryRepository port.
//
// Stops live in itinerary_stops keyed by (itinerary_id, position), where
// position is the storage sequence: cancelled stops sit at the front with
// stop_order 0, active stops follow in visiting order.
type PgItineraryRepository struct{ DB *sql.DB }

func NewPgItineraryRepository(db *sql.DB) *PgItineraryRepository {
	return &PgItineraryRepository{DB: db}
}

func (r *PgItineraryRepository) ListByStatus(ctx context.Context, statuses ...domain.ItineraryStatus) (_ []*domain.SharedItinerary, err error) {
	defer obs.Time(ctx, "itinerary.repo.ListByStatus")(&err)

	if len(statuses) == 0 {
		return []*domain.SharedItinerary{}, nil
	}

	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	q := `
	SELECT itinerary_id, vehicle_id, driver_id, status, version
	FROM itineraries
	WHERE status = ANY($1::text[])
	ORDER BY itinerary_id;
	`
	rows, err := r.DB.QueryContext(ctx, q, values)
	if err != nil {
		return nil, fmt.Errorf("list itineraries: query: %w", err)
	}
	defer rows.Close()

	itineraries := make([]*domain.SharedItinerary, 0, 16)
	byID := make(map[string]*domain.SharedItinerary, 16)
	ids := make([]string, 0, 16)
	for rows.Next() {
		it := &domain.SharedItinerary{}
		if err := rows.Scan(&it.ID, &it.VehicleID, &it.DriverID, &it.Status, &it.Version); err != nil {
			return nil, fmt.Errorf("list itineraries: scan row: %w", err)
		}
		itineraries = append(itineraries, it)
		byID[it.ID] = it
		ids = append(ids, it.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list itineraries: row iteration: %w", err)
	}
	if len(itineraries) == 0 {
		return itineraries, nil
	}

	if err := r.loadStops(ctx, ids, byID); err != nil {
		return nil, fmt.Errorf("list itineraries: %w", err)
	}
	return itineraries, nil
}

func (r *PgItineraryRepository) GetByID(ctx context.Context, id string) (*domain.SharedItinerary, error) {
	q := `
	SELECT itinerary_id, vehicle_id, driver_id, status, version
	FROM itineraries
	WHERE itinerary_id = $1;
	`
	it := &domain.SharedItinerary{}
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&it.ID, &it.VehicleID, &it.DriverID, &it.Status, &it.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get itinerary %q: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get itinerary %q: %w", id, err)
	}

	if err := r.loadStops(ctx, []string{it.ID}, map[string]*domain.SharedItinerary{it.ID: it}); err != nil {
		return nil, fmt.Errorf("get itinerary %q: %w", id, err)
	}
	return it, nil
}

func (r *PgItineraryRepository) GetByTripID(ctx context.Context, tripID domain.TripID) (*domain.SharedItinerary, error) {
	q := `
	SELECT DISTINCT itinerary_id
	FROM itinerary_stops
	WHERE trip_id = $1;
	`
	var id string
	err := r.DB.QueryRowContext(ctx, q, string(tripID)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("itinerary for trip %q: %w", tripID, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("itinerary for trip %q: %w", tripID, err)
	}
	return r.GetByID(ctx, id)
}

// Update persists status and the full stop list behind an optimistic version
// check and bumps the aggregate's version on success.
func (r *PgItineraryRepository) Update(ctx context.Context, it *domain.SharedItinerary) (err error) {
	defer obs.Time(ctx, "itinerary.repo.Update")(&err)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update itinerary %q: begin tx: %w", it.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	UPDATE itineraries
	SET status = $2, version = version + 1
	WHERE itinerary_id = $1 AND version = $3;
	`, it.ID, string(it.Status), it.Version)
	if err != nil {
		return fmt.Errorf("update itinerary %q: %w", it.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update itinerary %q: rows affected: %w", it.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update itinerary %q: %w", it.ID, ports.ErrVersionConflict)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM itinerary_stops WHERE itinerary_id = $1;`, it.ID); err != nil {
		return fmt.Errorf("update itinerary %q: clear stops: %w", it.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO itinerary_stops (
		itinerary_id, position, trip_id, point_type,
		lat, lng, address, stop_order, is_pass, is_cancel
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`)
	if err != nil {
		return fmt.Errorf("update itinerary %q: prepare insert: %w", it.ID, err)
	}
	defer stmt.Close()

	for pos, s := range it.Stops {
		_, err := stmt.ExecContext(ctx,
			it.ID, pos, string(s.TripID), string(s.PointType),
			s.Point.Lat, s.Point.Lng, s.Point.Address, s.Order, s.IsPass, s.IsCancel,
		)
		if err != nil {
			return fmt.Errorf("update itinerary %q: insert stop position=%d: %w", it.ID, pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update itinerary %q: commit: %w", it.ID, err)
	}

	it.Version++
	return nil
}

// loadStops fills Stops for each itinerary in byID, in storage order.
func (r *PgItineraryRepository) loadStops(ctx context.Context, ids []string, byID map[string]*domain.SharedItinerary) error {
	q := `
	SELECT itinerary_id, trip_id, point_type, lat, lng, address, stop_order, is_pass, is_cancel
	FROM itinerary_stops
	WHERE itinerary_id = ANY($1::text[])
	ORDER BY itinerary_id, position;
	`
	rows, err := r.DB.QueryContext(ctx, q, ids)
	if err != nil {
		return fmt.Errorf("load stops: query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			itineraryID, tripID, pointType, address string
			lat, lng                                float64
			order                                   int
			isPass, isCancel                        bool
		)
		if err := rows.Scan(&itineraryID, &tripID, &pointType, &lat, &lng, &address, &order, &isPass, &isCancel); err != nil {
			return fmt.Errorf("load stops: scan row: %w", err)
		}

		it, ok := byID[itineraryID]
		if !ok {
			continue
		}
		it.Stops = append(it.Stops, domain.Stop{
			Order:     order,
			PointType: domain.PointType(pointType),
			TripID:    domain.TripID(tripID),
			Point:     domain.GeoPoint{Lat: lat, Lng: lng, Address: address},
			IsPass:    isPass,
			IsCancel:  isCancel,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load stops: row iteration: %w", err)
	}
	return nil
}
