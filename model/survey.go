package model

// SurveyConfig describes a grid survey request. It is treated as immutable
// once planning starts: the planner reads it, never writes it, and a plan is
// regenerated by planning again rather than by mutating an existing plan.
type SurveyConfig struct {
	Name string `json:"name" yaml:"name"`

	SurveyPolygon Polygon `json:"surveyPolygon" yaml:"surveyPolygon"`

	// Altitude is the flight altitude in metres for every waypoint.
	Altitude float64 `json:"altitude" yaml:"altitude"`

	// SpacingMeters sets both the distance between sweep lines and the
	// maximum distance between consecutive samples along a line.
	SpacingMeters float64 `json:"spacingMeters" yaml:"spacingMeters"`

	// OverlapFraction is the configured sensor footprint overlap in [0,1].
	OverlapFraction float64 `json:"overlapFraction" yaml:"overlapFraction"`

	// SweepAngleDegrees is the desired flight heading; sweep lines run
	// perpendicular to it.
	SweepAngleDegrees float64 `json:"sweepAngleDegrees" yaml:"sweepAngleDegrees"`

	Obstacles []ObstacleZone `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
}

// ValidationResult collects configuration violations. Valid is true only when
// Errors is empty.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
