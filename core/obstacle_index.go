package core

import "github.com/skyroutex/surveyplanner/model"

// BlockResult is the answer to an obstacle query. ObstacleID is set only when
// Blocked is true.
type BlockResult struct {
	Blocked    bool
	ObstacleID string
}

// ObstacleIndex answers "is this point blocked at this altitude?" against a
// fixed list of obstacle zones. The list is copied at construction and never
// mutated, so a single index can serve any number of concurrent queries.
type ObstacleIndex struct {
	zones []model.ObstacleZone
}

// NewObstacleIndex builds an index over the given zones. Zone order is
// preserved: the first matching obstacle wins, with no overlap-priority
// resolution beyond list order.
func NewObstacleIndex(zones []model.ObstacleZone) *ObstacleIndex {
	copied := make([]model.ObstacleZone, len(zones))
	copy(copied, zones)
	return &ObstacleIndex{zones: copied}
}

// IsBlocked reports whether p at the given altitude falls inside any enabled
// obstacle whose altitude band contains the flight altitude.
func (ix *ObstacleIndex) IsBlocked(p model.GeoPoint, altitude float64) BlockResult {
	for _, zone := range ix.zones {
		if !zone.Enabled {
			continue
		}
		if altitude < zone.MinAltitude || altitude > zone.MaxAltitude {
			continue
		}

		switch zone.Kind {
		case model.ObstacleKindPolygon:
			if len(zone.Vertices) >= 3 && PointInPolygon(p, zone.Vertices) {
				return BlockResult{Blocked: true, ObstacleID: zone.ID}
			}
		case model.ObstacleKindCircle, model.ObstacleKindCylinder:
			if zone.RadiusMeters > 0 && PointInCircle(p, zone.Center, zone.RadiusMeters) {
				return BlockResult{Blocked: true, ObstacleID: zone.ID}
			}
		}
	}
	return BlockResult{}
}

// Zones returns the number of indexed zones, enabled or not.
func (ix *ObstacleIndex) Zones() int { return len(ix.zones) }
