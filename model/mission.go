package model

// SweepDirection indicates which way a sweep line is flown.
type SweepDirection int

const (
	DirectionForward SweepDirection = iota
	DirectionBackward
)

// String implements fmt.Stringer.
func (d SweepDirection) String() string {
	if d == DirectionBackward {
		return "backward"
	}
	return "forward"
}

// Waypoint is one sampled point of the coverage grid. Sequence numbers are
// unique and strictly increasing across a whole MissionPlan.
type Waypoint struct {
	Sequence  int      `json:"sequence"`
	Position  Position `json:"position"`
	LineIndex int      `json:"lineIndex"`

	// Valid is false when the point lies outside the survey polygon or an
	// obstacle blocks it at the flight altitude. BlockingObstacleID names
	// the obstacle in the latter case.
	Valid              bool   `json:"valid"`
	BlockingObstacleID string `json:"blockingObstacleId,omitempty"`
}

// SweepLine is one pass of the boustrophedon pattern. Direction strictly
// alternates between consecutive lines of a plan.
type SweepLine struct {
	LineIndex int            `json:"lineIndex"`
	Direction SweepDirection `json:"direction"`
	Waypoints []Waypoint     `json:"waypoints"`
}

// MissionStats summarises a generated plan.
type MissionStats struct {
	TotalWaypoints int `json:"totalWaypoints"`
	ValidCount     int `json:"validCount"`
	BlockedCount   int `json:"blockedCount"`
	LineCount      int `json:"lineCount"`

	TotalDistanceMeters  float64 `json:"totalDistanceMeters"`
	FlightTimeSeconds    float64 `json:"flightTimeSeconds"`
	BatteryPercent       float64 `json:"batteryPercent"`
	CoverageAreaSqMeters float64 `json:"coverageAreaSqMeters"`

	// Leg statistics over consecutive valid waypoints.
	MeanLegMeters float64 `json:"meanLegMeters"`
	MaxLegMeters  float64 `json:"maxLegMeters"`
}

// LimitCheck reports the waypoint-ceiling check. A plan over the ceiling is
// still returned in full; Valid=false tells the caller the autopilot would
// reject it as-is.
type LimitCheck struct {
	Valid   bool   `json:"valid"`
	Count   int    `json:"count"`
	Max     int    `json:"max"`
	Warning string `json:"warning,omitempty"`
}

// MissionPlan is the sole planner output, owned by the caller. It is produced
// once per invocation as a pure function of SurveyConfig.
type MissionPlan struct {
	Config         SurveyConfig `json:"config"`
	Lines          []SweepLine  `json:"lines"`
	Waypoints      []Waypoint   `json:"waypoints"`
	ValidWaypoints []Waypoint   `json:"validWaypoints"`
	Stats          MissionStats `json:"stats"`
	Limit          LimitCheck   `json:"limit"`
}
