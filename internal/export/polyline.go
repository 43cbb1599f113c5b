package export

import (
	"fmt"

	"github.com/twpayne/go-polyline"

	"github.com/skyroutex/surveyplanner/model"
)

// EncodeFlightPath encodes the valid waypoints of a plan as a Google encoded
// polyline, the compact form map frontends consume. Altitude is not carried;
// grid missions fly a single altitude held in the config.
func EncodeFlightPath(waypoints []model.Waypoint) string {
	if len(waypoints) == 0 {
		return ""
	}
	coords := make([][]float64, 0, len(waypoints))
	for _, wp := range waypoints {
		coords = append(coords, []float64{wp.Position.Lat, wp.Position.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodeFlightPath decodes an encoded polyline back into horizontal points.
func DecodeFlightPath(encoded string) ([]model.GeoPoint, error) {
	if encoded == "" {
		return nil, nil
	}
	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("DecodeFlightPath: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("DecodeFlightPath: %d trailing bytes", len(rest))
	}
	points := make([]model.GeoPoint, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			return nil, fmt.Errorf("DecodeFlightPath: short coordinate")
		}
		points = append(points, model.GeoPoint{Lat: c[0], Lon: c[1]})
	}
	return points, nil
}
