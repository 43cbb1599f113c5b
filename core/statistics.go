package core

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/skyroutex/surveyplanner/model"
)

// StatsConfig tunes the mission estimators. The battery figure is a coarse
// linear heuristic, not a physical model.
type StatsConfig struct {
	// CruiseSpeedMPS is the assumed ground speed in metres per second.
	CruiseSpeedMPS float64
	// BatteryDrainPerSecond is the assumed drain in percent per second.
	BatteryDrainPerSecond float64
}

// DefaultStatsConfig returns the stock estimator constants: 10 m/s cruise,
// 0.2 %/s drain.
func DefaultStatsConfig() StatsConfig {
	return StatsConfig{CruiseSpeedMPS: 10.0, BatteryDrainPerSecond: 0.2}
}

// StatisticsEngine derives mission statistics from generated waypoints.
type StatisticsEngine struct {
	cfg StatsConfig
}

// NewStatisticsEngine constructs an engine; zero or negative constants fall
// back to the defaults.
func NewStatisticsEngine(cfg StatsConfig) *StatisticsEngine {
	def := DefaultStatsConfig()
	if cfg.CruiseSpeedMPS <= 0 {
		cfg.CruiseSpeedMPS = def.CruiseSpeedMPS
	}
	if cfg.BatteryDrainPerSecond <= 0 {
		cfg.BatteryDrainPerSecond = def.BatteryDrainPerSecond
	}
	return &StatisticsEngine{cfg: cfg}
}

// Compute summarises a generated plan. Distance is accumulated only across
// consecutive valid, sequence-ordered waypoints: the vehicle never flies
// through a point the planner rejected.
func (se *StatisticsEngine) Compute(cfg model.SurveyConfig, lines []model.SweepLine, waypoints []model.Waypoint) model.MissionStats {
	stats := model.MissionStats{
		TotalWaypoints: len(waypoints),
		LineCount:      len(lines),
	}

	valid := make([]model.Waypoint, 0, len(waypoints))
	for _, wp := range waypoints {
		if wp.Valid {
			valid = append(valid, wp)
		}
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Sequence < valid[j].Sequence })

	stats.ValidCount = len(valid)
	stats.BlockedCount = stats.TotalWaypoints - stats.ValidCount

	if len(valid) > 1 {
		legs := make([]float64, 0, len(valid)-1)
		for i := 1; i < len(valid); i++ {
			legs = append(legs, HaversineDistance(valid[i-1].Position.Point(), valid[i].Position.Point()))
		}
		stats.TotalDistanceMeters = floats.Sum(legs)
		stats.MeanLegMeters = stat.Mean(legs, nil)
		stats.MaxLegMeters = floats.Max(legs)
	}

	stats.FlightTimeSeconds = stats.TotalDistanceMeters / se.cfg.CruiseSpeedMPS
	stats.BatteryPercent = clampPercent(stats.FlightTimeSeconds * se.cfg.BatteryDrainPerSecond)
	stats.CoverageAreaSqMeters = PolygonAreaSqMeters(cfg.SurveyPolygon)

	return stats
}

// PolygonAreaSqMeters computes the polygon area with the planar shoelace
// formula over degree coordinates, scaled to square metres using the
// polygon's mean latitude. Accuracy degrades for very large areas and near
// the poles; survey polygons are far smaller than where that matters.
func PolygonAreaSqMeters(poly model.Polygon) float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}

	var twiceArea, latSum float64
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		twiceArea += a.Lon*b.Lat - b.Lon*a.Lat
		latSum += a.Lat
	}

	areaDeg2 := math.Abs(twiceArea) / 2
	meanLat := latSum / float64(n)

	return areaDeg2 * MetersPerDegreeLat * MetersPerDegreeLat * math.Cos(degToRad(meanLat))
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
