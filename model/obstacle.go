package model

// ObstacleKind identifies the shape of an obstacle zone.
type ObstacleKind string

const (
	ObstacleKindPolygon  ObstacleKind = "polygon"
	ObstacleKindCircle   ObstacleKind = "circle"
	ObstacleKindCylinder ObstacleKind = "cylinder"
)

// ObstacleZone is an exclusion region with an altitude band. Polygon zones use
// Vertices; circle and cylinder zones use Center and RadiusMeters. A zone only
// applies to flight altitudes inside [MinAltitude, MaxAltitude].
type ObstacleZone struct {
	ID   string       `json:"id" yaml:"id"`
	Name string       `json:"name" yaml:"name"`
	Kind ObstacleKind `json:"kind" yaml:"kind"`

	Vertices     Polygon  `json:"vertices,omitempty" yaml:"vertices,omitempty"`
	Center       GeoPoint `json:"center,omitempty" yaml:"center,omitempty"`
	RadiusMeters float64  `json:"radiusMeters,omitempty" yaml:"radiusMeters,omitempty"`

	MinAltitude float64 `json:"minAltitude" yaml:"minAltitude"`
	MaxAltitude float64 `json:"maxAltitude" yaml:"maxAltitude"`

	Enabled bool `json:"enabled" yaml:"enabled"`
}
