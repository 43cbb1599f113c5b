package core

import (
	"fmt"

	"github.com/skyroutex/surveyplanner/model"
)

// Validation bounds for survey configuration. Altitude and spacing limits
// reflect what the supported airframes will accept.
const (
	MinAltitudeMeters = 10.0
	MaxAltitudeMeters = 120.0
	MinSpacingMeters  = 10.0
	MaxSpacingMeters  = 100.0

	// DefaultWaypointLimit is the autopilot's mission upload ceiling.
	DefaultWaypointLimit = 256

	// waypointWarnFraction of the ceiling triggers an early warning.
	waypointWarnFraction = 0.9
)

// ValidateConfig checks a survey configuration before planning. All
// violations are collected rather than failing fast, so a caller can surface
// every problem at once.
func ValidateConfig(cfg model.SurveyConfig) model.ValidationResult {
	var errs []string

	if cfg.Name == "" {
		errs = append(errs, "mission name must not be empty")
	}
	if len(cfg.SurveyPolygon) < 3 {
		errs = append(errs, fmt.Sprintf("survey polygon needs at least 3 vertices, got %d", len(cfg.SurveyPolygon)))
	}
	if cfg.Altitude < MinAltitudeMeters || cfg.Altitude > MaxAltitudeMeters {
		errs = append(errs, fmt.Sprintf("altitude %.1f m outside [%.0f,%.0f]", cfg.Altitude, MinAltitudeMeters, MaxAltitudeMeters))
	}
	if cfg.SpacingMeters < MinSpacingMeters || cfg.SpacingMeters > MaxSpacingMeters {
		errs = append(errs, fmt.Sprintf("spacing %.1f m outside [%.0f,%.0f]", cfg.SpacingMeters, MinSpacingMeters, MaxSpacingMeters))
	}
	if cfg.OverlapFraction < 0 || cfg.OverlapFraction > 1 {
		errs = append(errs, fmt.Sprintf("overlap fraction %.3f outside [0,1]", cfg.OverlapFraction))
	}

	for _, zone := range cfg.Obstacles {
		switch zone.Kind {
		case model.ObstacleKindPolygon:
			if len(zone.Vertices) < 3 {
				errs = append(errs, fmt.Sprintf("obstacle %q: polygon zone needs at least 3 vertices, got %d", zone.ID, len(zone.Vertices)))
			}
		case model.ObstacleKindCircle, model.ObstacleKindCylinder:
			if zone.RadiusMeters <= 0 {
				errs = append(errs, fmt.Sprintf("obstacle %q: %s zone needs a positive radius, got %.1f m", zone.ID, zone.Kind, zone.RadiusMeters))
			}
		default:
			errs = append(errs, fmt.Sprintf("obstacle %q: unknown kind %q", zone.ID, zone.Kind))
		}
	}

	return model.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// CheckWaypointLimit reports whether a generated waypoint count fits the
// autopilot ceiling. Counts above the ceiling are a hard failure; counts
// above 90% of it carry a warning. maxAllowed <= 0 selects the default
// ceiling.
func CheckWaypointLimit(n, maxAllowed int) model.LimitCheck {
	if maxAllowed <= 0 {
		maxAllowed = DefaultWaypointLimit
	}

	check := model.LimitCheck{Valid: true, Count: n, Max: maxAllowed}

	warnAt := int(float64(maxAllowed) * waypointWarnFraction)
	switch {
	case n > maxAllowed:
		check.Valid = false
		check.Warning = fmt.Sprintf("waypoint count %d exceeds the autopilot ceiling of %d", n, maxAllowed)
	case n > warnAt:
		check.Warning = fmt.Sprintf("waypoint count %d is above %d%% of the autopilot ceiling of %d", n, int(waypointWarnFraction*100), maxAllowed)
	}

	return check
}
