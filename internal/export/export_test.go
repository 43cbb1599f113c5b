package export

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyroutex/surveyplanner/core"
	"github.com/skyroutex/surveyplanner/model"
)

func squarePlan(t *testing.T) *model.MissionPlan {
	t.Helper()

	cfg := model.SurveyConfig{
		Name: "export-test",
		SurveyPolygon: model.Polygon{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 0.001},
			{Lat: 0.001, Lon: 0.001},
			{Lat: 0.001, Lon: 0},
		},
		Altitude:      50,
		SpacingMeters: 50,
		Obstacles: []model.ObstacleZone{
			{
				ID:           "tower-1",
				Name:         "radio tower",
				Kind:         model.ObstacleKindCircle,
				Center:       model.GeoPoint{Lat: 0.0005, Lon: 0.0005},
				RadiusMeters: 20,
				MinAltitude:  0,
				MaxAltitude:  120,
				Enabled:      true,
			},
		},
	}

	plan, err := core.NewPlanner().Plan(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, plan.ValidWaypoints)
	return plan
}

func TestWriteKML(t *testing.T) {
	plan := squarePlan(t)

	var buf bytes.Buffer
	require.NoError(t, WriteKML(&buf, plan))

	out := buf.String()
	assert.Contains(t, out, "<kml")
	assert.Contains(t, out, "export-test")
	assert.Contains(t, out, "survey boundary")
	assert.Contains(t, out, "radio tower")
	assert.Contains(t, out, "flight path")
	assert.Contains(t, out, "<LineString>")
	assert.Contains(t, out, "<coordinates>")
	assert.Contains(t, out, "waypoints")
	assert.Contains(t, out, "wp 0")
}

func TestRingCoordinatesClosesRing(t *testing.T) {
	ring := []model.GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.001},
		{Lat: 0.001, Lon: 0.001},
	}
	coords := ringCoordinates(ring)
	require.Len(t, coords, 4)
	assert.Equal(t, coords[0], coords[3])
}

func TestWriteKMLNilPlan(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteKML(&buf, nil))
}

func TestWriteKMLSkipsDegenerateObstacles(t *testing.T) {
	plan := squarePlan(t)
	plan.Config.Obstacles = []model.ObstacleZone{
		{ID: "bad-circle", Kind: model.ObstacleKindCircle, RadiusMeters: 0},
		{ID: "bad-polygon", Kind: model.ObstacleKindPolygon},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteKML(&buf, plan))
	assert.NotContains(t, buf.String(), "bad-circle")
	assert.NotContains(t, buf.String(), "bad-polygon")
}

func TestFlightPathRoundTrip(t *testing.T) {
	plan := squarePlan(t)

	encoded := EncodeFlightPath(plan.ValidWaypoints)
	require.NotEmpty(t, encoded)

	points, err := DecodeFlightPath(encoded)
	require.NoError(t, err)
	require.Len(t, points, len(plan.ValidWaypoints))

	// encoded polylines quantise to 1e-5 degrees
	for i, wp := range plan.ValidWaypoints {
		assert.InDelta(t, wp.Position.Lat, points[i].Lat, 1e-5, "lat %d", i)
		assert.InDelta(t, wp.Position.Lon, points[i].Lon, 1e-5, "lon %d", i)
	}
}

func TestEncodeFlightPathEmpty(t *testing.T) {
	assert.Empty(t, EncodeFlightPath(nil))

	points, err := DecodeFlightPath("")
	require.NoError(t, err)
	assert.Nil(t, points)
}

func TestDecodeFlightPathGarbage(t *testing.T) {
	_, err := DecodeFlightPath("\x01")
	assert.Error(t, err)
}

func TestCircleRingStaysOnRadius(t *testing.T) {
	center := model.GeoPoint{Lat: 0.0005, Lon: 0.0005}
	ring := circleRing(center, 20)
	require.Len(t, ring, circleRingSegments)
	for _, p := range ring {
		d := core.HaversineDistance(center, p)
		assert.Less(t, math.Abs(d-20), 0.5)
	}
}
