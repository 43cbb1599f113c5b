package model

// GeoPoint is a WGS84 coordinate in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Position is a GeoPoint plus altitude in metres above the takeoff datum.
type Position struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
	Alt float64 `json:"alt" yaml:"alt"`
}

// Point returns the horizontal component of the position.
func (p Position) Point() GeoPoint {
	return GeoPoint{Lat: p.Lat, Lon: p.Lon}
}

// Polygon is an ordered ring of at least three vertices. The first vertex is
// not repeated as the last; consumers close the ring implicitly.
type Polygon []GeoPoint
