package core

import (
	"math"

	"github.com/skyroutex/surveyplanner/model"
)

// EarthRadiusMeters is the mean Earth radius used for all geodesic
// calculations in the planner (metres, spherical model).
const EarthRadiusMeters = 6371000.0

// MetersPerDegreeLat is the length of one degree of latitude. It varies by
// well under 1% across the globe, which is negligible at survey scales.
const MetersPerDegreeLat = 111320.0

// maxUsableLat bounds the cos(lat) correction for longitude conversions so
// results stay finite approaching the poles.
const maxUsableLat = 89.9

func degToRad(d float64) float64 { return d * math.Pi / 180.0 }
func radToDeg(r float64) float64 { return r * 180.0 / math.Pi }

// HaversineDistance returns the great-circle distance between a and b in
// metres. It is symmetric and zero for identical points.
func HaversineDistance(a, b model.GeoPoint) float64 {
	if a == b {
		return 0
	}

	lat1 := degToRad(a.Lat)
	lat2 := degToRad(b.Lat)
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Bearing returns the initial great-circle bearing from a to b in degrees,
// normalised to [0,360). 0° = north, 90° = east.
func Bearing(a, b model.GeoPoint) float64 {
	lat1 := degToRad(a.Lat)
	lat2 := degToRad(b.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := radToDeg(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// Destination projects origin by distanceMeters along bearingDegrees on the
// sphere and returns the resulting point.
func Destination(origin model.GeoPoint, distanceMeters, bearingDegrees float64) model.GeoPoint {
	lat1 := degToRad(origin.Lat)
	lon1 := degToRad(origin.Lon)
	brg := degToRad(bearingDegrees)
	delta := distanceMeters / EarthRadiusMeters

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) +
		math.Cos(lat1)*math.Sin(delta)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(
		math.Sin(brg)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	lonDeg := radToDeg(lon2)
	// Normalise longitude to [-180,180].
	lonDeg = math.Mod(lonDeg+540, 360) - 180

	return model.GeoPoint{Lat: radToDeg(lat2), Lon: lonDeg}
}

// MetersToDegreesLat converts a north-south distance to degrees of latitude.
func MetersToDegreesLat(m float64) float64 {
	return m / MetersPerDegreeLat
}

// MetersToDegreesLon converts an east-west distance at latitude atLat to
// degrees of longitude. The latitude is clamped near the poles so the result
// stays bounded.
func MetersToDegreesLon(m, atLat float64) float64 {
	lat := atLat
	if lat > maxUsableLat {
		lat = maxUsableLat
	} else if lat < -maxUsableLat {
		lat = -maxUsableLat
	}
	return m / (MetersPerDegreeLat * math.Cos(degToRad(lat)))
}

// PointInPolygon reports whether p lies inside polygon using the even-odd
// ray-casting rule, with longitude as x and latitude as y. Behaviour for
// points exactly on the boundary is unspecified; callers needing a definite
// answer must stay strictly inside or outside.
func PointInPolygon(p model.GeoPoint, polygon model.Polygon) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi := polygon[i]
		vj := polygon[j]
		if (vi.Lat > p.Lat) == (vj.Lat > p.Lat) {
			continue
		}
		crossLon := vi.Lon + (p.Lat-vi.Lat)/(vj.Lat-vi.Lat)*(vj.Lon-vi.Lon)
		if p.Lon < crossLon {
			inside = !inside
		}
	}
	return inside
}

// PointInCircle reports whether p is within radiusMeters of center.
func PointInCircle(p, center model.GeoPoint, radiusMeters float64) bool {
	return HaversineDistance(p, center) <= radiusMeters
}

// segmentEpsilon is the determinant threshold below which two segments are
// treated as parallel.
const segmentEpsilon = 1e-12

// SegmentIntersection intersects the segments p1-p2 and p3-p4 using the
// planar determinant method, treating longitude/latitude as a flat plane.
// The approximation is fine at survey scales (well under ~50 km). It returns
// ok=false for parallel segments and for intersections falling outside either
// segment.
func SegmentIntersection(p1, p2, p3, p4 model.GeoPoint) (model.GeoPoint, bool) {
	x1, y1 := p1.Lon, p1.Lat
	x2, y2 := p2.Lon, p2.Lat
	x3, y3 := p3.Lon, p3.Lat
	x4, y4 := p4.Lon, p4.Lat

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < segmentEpsilon {
		return model.GeoPoint{}, false
	}

	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom
	u := -((x1-x2)*(y1-y3) - (y1-y2)*(x1-x3)) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return model.GeoPoint{}, false
	}

	return model.GeoPoint{
		Lat: y1 + t*(y2-y1),
		Lon: x1 + t*(x2-x1),
	}, true
}
