package core

import (
	"math"
	"testing"

	"github.com/skyroutex/surveyplanner/model"
)

func TestHaversineDistance_ZeroForIdenticalPoints(t *testing.T) {
	p := model.GeoPoint{Lat: 37.77, Lon: -122.41}
	if d := HaversineDistance(p, p); d != 0 {
		t.Fatalf("distance between identical points = %v, want 0", d)
	}
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	a := model.GeoPoint{Lat: 37.77, Lon: -122.41}
	b := model.GeoPoint{Lat: 37.80, Lon: -122.39}

	ab := HaversineDistance(a, b)
	ba := HaversineDistance(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("distance not symmetric: ab=%v ba=%v", ab, ba)
	}
	if ab <= 0 {
		t.Fatalf("distance between distinct points = %v, want > 0", ab)
	}
}

func TestHaversineDistance_OneDegreeOfLatitude(t *testing.T) {
	// One degree of latitude is ~111.2 km on the sphere we use.
	a := model.GeoPoint{Lat: 0, Lon: 0}
	b := model.GeoPoint{Lat: 1, Lon: 0}

	d := HaversineDistance(a, b)
	if d < 110000 || d > 112500 {
		t.Fatalf("one degree of latitude = %v m, want ~111.2 km", d)
	}
}

func TestBearing_CardinalDirections(t *testing.T) {
	origin := model.GeoPoint{Lat: 0, Lon: 0}

	cases := []struct {
		name   string
		target model.GeoPoint
		want   float64
	}{
		{"north", model.GeoPoint{Lat: 1, Lon: 0}, 0},
		{"east", model.GeoPoint{Lat: 0, Lon: 1}, 90},
		{"south", model.GeoPoint{Lat: -1, Lon: 0}, 180},
		{"west", model.GeoPoint{Lat: 0, Lon: -1}, 270},
	}

	for _, tc := range cases {
		got := Bearing(origin, tc.target)
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("%s: bearing = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestBearing_AlwaysInRange(t *testing.T) {
	origin := model.GeoPoint{Lat: 45, Lon: 7}
	for deg := 0; deg < 360; deg += 15 {
		target := Destination(origin, 5000, float64(deg))
		b := Bearing(origin, target)
		if b < 0 || b >= 360 {
			t.Fatalf("bearing %v out of [0,360) for heading %d", b, deg)
		}
	}
}

// Round trip: projecting by the measured distance along the measured bearing
// must land back on the target.
func TestDestination_RoundTripsWithBearingAndDistance(t *testing.T) {
	origin := model.GeoPoint{Lat: 52.2296, Lon: 21.0122}
	target := model.GeoPoint{Lat: 52.2410, Lon: 21.0500}

	d := HaversineDistance(origin, target)
	b := Bearing(origin, target)
	back := Destination(origin, d, b)

	if math.Abs(back.Lat-target.Lat) > 1e-6 || math.Abs(back.Lon-target.Lon) > 1e-6 {
		t.Fatalf("round trip landed at %+v, want %+v", back, target)
	}
}

func TestMetersToDegreesLat(t *testing.T) {
	got := MetersToDegreesLat(111320)
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("111320 m = %v degrees of latitude, want 1", got)
	}
}

func TestMetersToDegreesLon_LatitudeCorrection(t *testing.T) {
	atEquator := MetersToDegreesLon(1000, 0)
	at60 := MetersToDegreesLon(1000, 60)

	// cos(60°) = 0.5, so the same distance spans twice the longitude.
	if math.Abs(at60/atEquator-2.0) > 1e-6 {
		t.Fatalf("1000 m at 60N = %v deg, at equator = %v deg; ratio %v, want 2", at60, atEquator, at60/atEquator)
	}
}

func TestMetersToDegreesLon_BoundedNearPoles(t *testing.T) {
	// Without clamping, cos(lat) -> 0 makes the conversion blow up.
	v := MetersToDegreesLon(1000, 90)
	if math.IsInf(v, 0) || math.IsNaN(v) || v > 10 {
		t.Fatalf("conversion at the pole = %v, want a bounded value", v)
	}
}

func TestPointInPolygon_InteriorAndExterior(t *testing.T) {
	square := model.Polygon{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 1, Lon: 1},
		{Lat: 1, Lon: 0},
	}

	if !PointInPolygon(model.GeoPoint{Lat: 0.5, Lon: 0.5}, square) {
		t.Errorf("centre of square reported outside")
	}
	if PointInPolygon(model.GeoPoint{Lat: 1.5, Lon: 0.5}, square) {
		t.Errorf("point north of square reported inside")
	}
	if PointInPolygon(model.GeoPoint{Lat: 0.5, Lon: -0.5}, square) {
		t.Errorf("point west of square reported inside")
	}
}

func TestPointInPolygon_ConcaveShape(t *testing.T) {
	// A "U" shape: the notch between the arms is outside the polygon.
	u := model.Polygon{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 3},
		{Lat: 2, Lon: 3},
		{Lat: 2, Lon: 2},
		{Lat: 0.5, Lon: 2},
		{Lat: 0.5, Lon: 1},
		{Lat: 2, Lon: 1},
		{Lat: 2, Lon: 0},
	}

	if PointInPolygon(model.GeoPoint{Lat: 1.5, Lon: 1.5}, u) {
		t.Errorf("point in the notch reported inside")
	}
	if !PointInPolygon(model.GeoPoint{Lat: 0.25, Lon: 1.5}, u) {
		t.Errorf("point in the base of the U reported outside")
	}
}

func TestPointInPolygon_TooFewVertices(t *testing.T) {
	if PointInPolygon(model.GeoPoint{}, model.Polygon{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}) {
		t.Fatalf("two-vertex polygon cannot contain anything")
	}
}

func TestPointInCircle(t *testing.T) {
	center := model.GeoPoint{Lat: 48.85, Lon: 2.35}
	near := Destination(center, 400, 45)
	far := Destination(center, 600, 45)

	if !PointInCircle(near, center, 500) {
		t.Errorf("point 400 m away reported outside a 500 m circle")
	}
	if PointInCircle(far, center, 500) {
		t.Errorf("point 600 m away reported inside a 500 m circle")
	}
}

func TestSegmentIntersection_Crossing(t *testing.T) {
	p, ok := SegmentIntersection(
		model.GeoPoint{Lat: 0, Lon: -1}, model.GeoPoint{Lat: 0, Lon: 1},
		model.GeoPoint{Lat: -1, Lon: 0}, model.GeoPoint{Lat: 1, Lon: 0},
	)
	if !ok {
		t.Fatalf("expected crossing segments to intersect")
	}
	if math.Abs(p.Lat) > 1e-9 || math.Abs(p.Lon) > 1e-9 {
		t.Fatalf("intersection at %+v, want origin", p)
	}
}

func TestSegmentIntersection_Parallel(t *testing.T) {
	if _, ok := SegmentIntersection(
		model.GeoPoint{Lat: 0, Lon: 0}, model.GeoPoint{Lat: 0, Lon: 1},
		model.GeoPoint{Lat: 1, Lon: 0}, model.GeoPoint{Lat: 1, Lon: 1},
	); ok {
		t.Fatalf("parallel segments must not intersect")
	}
}

func TestSegmentIntersection_OutsideSegmentBounds(t *testing.T) {
	// The infinite lines cross, but the segments themselves do not.
	if _, ok := SegmentIntersection(
		model.GeoPoint{Lat: 0, Lon: 2}, model.GeoPoint{Lat: 0, Lon: 3},
		model.GeoPoint{Lat: -1, Lon: 0}, model.GeoPoint{Lat: 1, Lon: 0},
	); ok {
		t.Fatalf("non-overlapping segments must not intersect")
	}
}
