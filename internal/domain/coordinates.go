package domain

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// A GeoPoint is a coordinate pair plus the human-readable address shown to
// passengers and drivers.
type GeoPoint struct {
	Lat     float64
	Lng     float64
	Address string
}

func (p GeoPoint) Coordinates() Coordinates { return Coordinates{Lon: p.Lng, Lat: p.Lat} }

// HasCoordinates reports whether the point carries usable coordinates.
// (0,0) is treated as "not geocoded" rather than a real position.
func (p GeoPoint) HasCoordinates() bool { return p.Lat != 0 || p.Lng != 0 }
