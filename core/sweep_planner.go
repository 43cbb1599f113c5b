package core

import (
	"math"
	"sort"

	"github.com/skyroutex/surveyplanner/model"
)

const (
	// probeOverrunMeters extends each probe segment past the bounding box so
	// boundary crossings are captured regardless of polygon rotation.
	probeOverrunMeters = 5000.0

	// chordInsetMeters pulls each chord endpoint slightly inside the polygon
	// so waypoint validity is never decided exactly on the boundary.
	chordInsetMeters = 0.05

	// hitDedupeMeters collapses probe hits that land on the same spot, e.g.
	// when a probe grazes a vertex shared by two edges or crosses a
	// zero-area polygon.
	hitDedupeMeters = 0.001
)

// SweepPlanner generates the boustrophedon coverage grid for one survey. It
// is a pure computation over an immutable config and a read-only obstacle
// index; independent planners can run concurrently without coordination.
type SweepPlanner struct {
	cfg       model.SurveyConfig
	obstacles *ObstacleIndex
}

// NewSweepPlanner wires a planner for the given config. The obstacle index
// may be nil when the survey has no obstacle zones.
func NewSweepPlanner(cfg model.SurveyConfig, obstacles *ObstacleIndex) *SweepPlanner {
	if obstacles == nil {
		obstacles = NewObstacleIndex(nil)
	}
	return &SweepPlanner{cfg: cfg, obstacles: obstacles}
}

type boundingBox struct {
	minLat, maxLat float64
	minLon, maxLon float64
}

func polygonBounds(poly model.Polygon) (boundingBox, bool) {
	if len(poly) < 3 {
		return boundingBox{}, false
	}
	bb := boundingBox{
		minLat: poly[0].Lat, maxLat: poly[0].Lat,
		minLon: poly[0].Lon, maxLon: poly[0].Lon,
	}
	for _, v := range poly[1:] {
		bb.minLat = math.Min(bb.minLat, v.Lat)
		bb.maxLat = math.Max(bb.maxLat, v.Lat)
		bb.minLon = math.Min(bb.minLon, v.Lon)
		bb.maxLon = math.Max(bb.maxLon, v.Lon)
	}
	return bb, true
}

// degenerate reports whether the box collapses to a point or a meridian /
// parallel line. Such surveys yield an empty plan rather than an error.
func (bb boundingBox) degenerate() bool {
	return bb.maxLat-bb.minLat <= 0 || bb.maxLon-bb.minLon <= 0
}

// Generate produces the ordered sweep lines and the flattened waypoint list.
// Sequence numbers increase globally in generation order and directions
// alternate between consecutive emitted lines.
func (sp *SweepPlanner) Generate() ([]model.SweepLine, []model.Waypoint) {
	cfg := sp.cfg

	bb, ok := polygonBounds(cfg.SurveyPolygon)
	if !ok || bb.degenerate() {
		return nil, nil
	}
	if cfg.SpacingMeters <= 0 {
		return nil, nil
	}

	// Sweep lines run perpendicular to the requested flight heading.
	lineAngle := math.Mod(cfg.SweepAngleDegrees+90, 360)
	if lineAngle < 0 {
		lineAngle += 360
	}

	latStep := MetersToDegreesLat(cfg.SpacingMeters)

	// Probe half-length: the full bounding-box diagonal plus the overrun.
	// Probes are anchored at the box's longitudinal centre but a line can sit
	// at either latitude extreme, so the far corner is up to a full diagonal
	// away regardless of the probe bearing.
	diagonal := HaversineDistance(
		model.GeoPoint{Lat: bb.minLat, Lon: bb.minLon},
		model.GeoPoint{Lat: bb.maxLat, Lon: bb.maxLon},
	)
	probeHalfLen := diagonal + probeOverrunMeters
	centerLon := (bb.minLon + bb.maxLon) / 2

	var (
		lines     []model.SweepLine
		waypoints []model.Waypoint
		direction = model.DirectionForward
		seq       = 0
	)

	// Step by index rather than accumulating latStep to avoid float drift
	// over many lines.
	stepEps := latStep * 1e-9
	for i := 0; ; i++ {
		lat := bb.minLat + float64(i)*latStep
		if lat > bb.maxLat+stepEps {
			break
		}

		anchor := model.GeoPoint{Lat: lat, Lon: centerLon}
		probeStart := Destination(anchor, probeHalfLen, math.Mod(lineAngle+180, 360))
		probeEnd := Destination(anchor, probeHalfLen, lineAngle)

		hits := sp.boundaryHits(probeStart, probeEnd)
		if len(hits) < 2 {
			// The sweep misses the polygon here (e.g. a concave notch).
			continue
		}

		entry, exit := hits[0], hits[1]
		if direction == model.DirectionBackward {
			entry, exit = exit, entry
		}

		line := sp.sampleChord(entry, exit, len(lines), direction, &seq)
		lines = append(lines, line)
		waypoints = append(waypoints, line.Waypoints...)

		if direction == model.DirectionForward {
			direction = model.DirectionBackward
		} else {
			direction = model.DirectionForward
		}
	}

	return lines, waypoints
}

// boundaryHits intersects the probe with every polygon edge and returns the
// distinct crossing points ordered by distance from the probe start.
func (sp *SweepPlanner) boundaryHits(probeStart, probeEnd model.GeoPoint) []model.GeoPoint {
	poly := sp.cfg.SurveyPolygon
	n := len(poly)

	var hits []model.GeoPoint
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		if p, ok := SegmentIntersection(probeStart, probeEnd, a, b); ok {
			hits = append(hits, p)
		}
	}
	if len(hits) < 2 {
		return hits
	}

	sort.Slice(hits, func(i, j int) bool {
		return HaversineDistance(probeStart, hits[i]) < HaversineDistance(probeStart, hits[j])
	})

	// Drop duplicate hits from shared vertices or degenerate geometry.
	deduped := hits[:1]
	for _, h := range hits[1:] {
		if HaversineDistance(deduped[len(deduped)-1], h) > hitDedupeMeters {
			deduped = append(deduped, h)
		}
	}
	return deduped
}

// sampleChord emits evenly spaced waypoints along the entry→exit chord at
// intervals no wider than the configured spacing, with a minimum of two
// samples per line.
func (sp *SweepPlanner) sampleChord(entry, exit model.GeoPoint, lineIndex int, direction model.SweepDirection, seq *int) model.SweepLine {
	cfg := sp.cfg

	chord := HaversineDistance(entry, exit)
	if chord > 2*chordInsetMeters {
		heading := Bearing(entry, exit)
		entry = Destination(entry, chordInsetMeters, heading)
		exit = Destination(exit, chordInsetMeters, math.Mod(heading+180, 360))
		chord = HaversineDistance(entry, exit)
	}

	samples := 2
	if chord > cfg.SpacingMeters {
		samples = int(math.Ceil(chord/cfg.SpacingMeters)) + 1
	}

	wps := make([]model.Waypoint, 0, samples)
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(samples-1)
		point := model.GeoPoint{
			Lat: entry.Lat + t*(exit.Lat-entry.Lat),
			Lon: entry.Lon + t*(exit.Lon-entry.Lon),
		}

		wp := model.Waypoint{
			Sequence: *seq,
			Position: model.Position{Lat: point.Lat, Lon: point.Lon, Alt: cfg.Altitude},
			LineIndex: lineIndex,
		}

		if !PointInPolygon(point, cfg.SurveyPolygon) {
			wp.Valid = false
		} else if res := sp.obstacles.IsBlocked(point, cfg.Altitude); res.Blocked {
			wp.Valid = false
			wp.BlockingObstacleID = res.ObstacleID
		} else {
			wp.Valid = true
		}

		*seq++
		wps = append(wps, wp)
	}

	return model.SweepLine{LineIndex: lineIndex, Direction: direction, Waypoints: wps}
}
