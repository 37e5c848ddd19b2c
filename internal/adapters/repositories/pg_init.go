package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createItinerariesQuery := `
	CREATE TABLE IF NOT EXISTS itineraries (
		itinerary_id TEXT PRIMARY KEY,
		vehicle_id TEXT NOT NULL,
		driver_id TEXT NOT NULL,
		status TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1
	);
	`

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS itinerary_stops (
		itinerary_id TEXT NOT NULL REFERENCES itineraries(itinerary_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		trip_id TEXT NOT NULL,
		point_type TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		stop_order INTEGER NOT NULL,
		is_pass BOOLEAN NOT NULL DEFAULT FALSE,
		is_cancel BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (itinerary_id, position)
	);
	`

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		trip_id TEXT PRIMARY KEY,
		itinerary_id TEXT,
		seat_count INTEGER NOT NULL,
		distance_estimate DOUBLE PRECISION NOT NULL
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		vehicle_id TEXT PRIMARY KEY,
		seat_capacity INTEGER NOT NULL
	);
	`

	createStatusIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_itineraries_status
	ON itineraries(status);
	`

	createStopTripIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_itinerary_stops_trip
	ON itinerary_stops(trip_id);
	`

	statements := []string{
		createItinerariesQuery,
		createStopsQuery,
		createTripsQuery,
		createVehiclesQuery,
		createStatusIndexQuery,
		createStopTripIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type StopSeed struct {
	TripID    string  `json:"trip_id"`
	PointType string  `json:"point_type"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Address   string  `json:"address"`
	Order     int     `json:"order"`
	IsPass    bool    `json:"is_pass"`
	IsCancel  bool    `json:"is_cancel"`
}

type ItinerarySeed struct {
	ItineraryID string     `json:"itinerary_id"`
	VehicleID   string     `json:"vehicle_id"`
	DriverID    string     `json:"driver_id"`
	Status      string     `json:"status"`
	Stops       []StopSeed `json:"stops"`
}

type TripSeed struct {
	TripID           string  `json:"trip_id"`
	ItineraryID      string  `json:"itinerary_id"`
	SeatCount        int     `json:"seat_count"`
	DistanceEstimate float64 `json:"distance_estimate"`
}

type VehicleSeed struct {
	VehicleID    string `json:"vehicle_id"`
	SeatCapacity int    `json:"seat_capacity"`
}

type Seed struct {
	Vehicles    []VehicleSeed   `json:"vehicles"`
	Itineraries []ItinerarySeed `json:"itineraries"`
	Trips       []TripSeed      `json:"trips"`
}

// Populate the database with demo data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed itineraries: read %q: %w", jsonPath, err)
	}

	var data Seed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed itineraries: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed itineraries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, v := range data.Vehicles {
		if strings.TrimSpace(v.VehicleID) == "" {
			return errors.New("seed itineraries: vehicle with empty id")
		}
		_, err := tx.Exec(`
		INSERT INTO vehicles (vehicle_id, seat_capacity)
		VALUES ($1, $2)
		ON CONFLICT (vehicle_id) DO UPDATE SET seat_capacity = EXCLUDED.seat_capacity;
		`, v.VehicleID, v.SeatCapacity)
		if err != nil {
			return fmt.Errorf("seed itineraries: insert vehicle %q: %w", v.VehicleID, err)
		}
	}

	for _, it := range data.Itineraries {
		if strings.TrimSpace(it.ItineraryID) == "" {
			return errors.New("seed itineraries: itinerary with empty id")
		}
		_, err := tx.Exec(`
		INSERT INTO itineraries (itinerary_id, vehicle_id, driver_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (itinerary_id) DO NOTHING;
		`, it.ItineraryID, it.VehicleID, it.DriverID, it.Status)
		if err != nil {
			return fmt.Errorf("seed itineraries: insert itinerary %q: %w", it.ItineraryID, err)
		}

		if _, err := tx.Exec(`DELETE FROM itinerary_stops WHERE itinerary_id = $1;`, it.ItineraryID); err != nil {
			return fmt.Errorf("seed itineraries: clear stops of %q: %w", it.ItineraryID, err)
		}
		for pos, s := range it.Stops {
			_, err := tx.Exec(`
			INSERT INTO itinerary_stops (
				itinerary_id, position, trip_id, point_type,
				lat, lng, address, stop_order, is_pass, is_cancel
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
			`, it.ItineraryID, pos, s.TripID, s.PointType, s.Lat, s.Lng, s.Address, s.Order, s.IsPass, s.IsCancel)
			if err != nil {
				return fmt.Errorf("seed itineraries: insert stop #%d of %q: %w", pos+1, it.ItineraryID, err)
			}
		}
	}

	for _, t := range data.Trips {
		if strings.TrimSpace(t.TripID) == "" {
			return errors.New("seed itineraries: trip with empty id")
		}
		_, err := tx.Exec(`
		INSERT INTO trips (trip_id, itinerary_id, seat_count, distance_estimate)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		ON CONFLICT (trip_id) DO UPDATE
		SET itinerary_id = EXCLUDED.itinerary_id,
			seat_count = EXCLUDED.seat_count,
			distance_estimate = EXCLUDED.distance_estimate;
		`, t.TripID, t.ItineraryID, t.SeatCount, t.DistanceEstimate)
		if err != nil {
			return fmt.Errorf("seed itineraries: insert trip %q: %w", t.TripID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed itineraries: commit tx: %w", err)
	}

	return nil
}
