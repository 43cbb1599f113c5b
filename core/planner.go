package core

import (
	"strings"

	"github.com/skyroutex/surveyplanner/model"
)

// ConfigError reports the collected validation failures for a survey
// configuration. It is returned before any planning work starts; the planner
// itself never raises mid-computation.
type ConfigError struct {
	Errors []string
}

func (e *ConfigError) Error() string {
	return "invalid survey config: " + strings.Join(e.Errors, "; ")
}

// Planner is the single entry point of the coverage engine. It holds only
// configuration constants, so one Planner can serve concurrent Plan calls.
type Planner struct {
	Stats         StatsConfig
	WaypointLimit int
}

// NewPlanner returns a planner with the default estimator constants and
// autopilot ceiling.
func NewPlanner() *Planner {
	return &Planner{
		Stats:         DefaultStatsConfig(),
		WaypointLimit: DefaultWaypointLimit,
	}
}

// Plan turns a survey configuration into a complete mission plan: validate,
// index obstacles, sweep, derive statistics, check the waypoint ceiling. It
// is deterministic — planning the same config twice yields identical output —
// and never mutates its input.
//
// A *ConfigError is the only error returned; geometric degeneracies degrade
// to an empty or partially-invalid plan. A plan over the waypoint ceiling is
// still returned in full, with the failure recorded on Plan.Limit.
func (p *Planner) Plan(cfg model.SurveyConfig) (*model.MissionPlan, error) {
	if res := ValidateConfig(cfg); !res.Valid {
		return nil, &ConfigError{Errors: res.Errors}
	}

	index := NewObstacleIndex(cfg.Obstacles)
	lines, waypoints := NewSweepPlanner(cfg, index).Generate()

	valid := make([]model.Waypoint, 0, len(waypoints))
	for _, wp := range waypoints {
		if wp.Valid {
			valid = append(valid, wp)
		}
	}

	stats := NewStatisticsEngine(p.Stats).Compute(cfg, lines, waypoints)

	return &model.MissionPlan{
		Config:         cfg,
		Lines:          lines,
		Waypoints:      waypoints,
		ValidWaypoints: valid,
		Stats:          stats,
		Limit:          CheckWaypointLimit(len(waypoints), p.WaypointLimit),
	}, nil
}
