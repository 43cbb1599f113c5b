// Package export renders mission plans into interchange formats for ground
// station tooling.
package export

import (
	"fmt"
	"io"

	"github.com/twpayne/go-kml/v2"

	"github.com/skyroutex/surveyplanner/core"
	"github.com/skyroutex/surveyplanner/model"
)

// circleRingSegments controls how many chord segments approximate a circular
// obstacle ring in KML output.
const circleRingSegments = 36

// WriteKML renders a mission plan as a KML document: the survey boundary, one
// placemark per obstacle zone, and the flight path through valid waypoints.
func WriteKML(w io.Writer, plan *model.MissionPlan) error {
	if plan == nil {
		return fmt.Errorf("WriteKML: nil plan")
	}

	name := plan.Config.Name
	if name == "" {
		name = "survey mission"
	}

	children := []kml.Element{kml.Name(name)}

	if len(plan.Config.SurveyPolygon) >= 3 {
		children = append(children, kml.Placemark(
			kml.Name("survey boundary"),
			kml.Polygon(
				kml.Tessellate(true),
				kml.OuterBoundaryIs(
					kml.LinearRing(
						kml.Coordinates(ringCoordinates(plan.Config.SurveyPolygon)...),
					),
				),
			),
		))
	}

	for _, zone := range plan.Config.Obstacles {
		placemark := obstaclePlacemark(zone)
		if placemark != nil {
			children = append(children, placemark)
		}
	}

	if len(plan.ValidWaypoints) > 0 {
		coords := make([]kml.Coordinate, 0, len(plan.ValidWaypoints))
		marks := make([]kml.Element, 0, len(plan.ValidWaypoints)+1)
		marks = append(marks, kml.Name("waypoints"))
		for _, wp := range plan.ValidWaypoints {
			c := kml.Coordinate{
				Lon: wp.Position.Lon,
				Lat: wp.Position.Lat,
				Alt: wp.Position.Alt,
			}
			coords = append(coords, c)
			marks = append(marks, kml.Placemark(
				kml.Name(fmt.Sprintf("wp %d", wp.Sequence)),
				kml.Point(
					kml.AltitudeMode(kml.AltitudeModeRelativeToGround),
					kml.Coordinates(c),
				),
			))
		}
		children = append(children, kml.Placemark(
			kml.Name("flight path"),
			kml.LineString(
				kml.AltitudeMode(kml.AltitudeModeRelativeToGround),
				kml.Tessellate(true),
				kml.Coordinates(coords...),
			),
		))
		children = append(children, kml.Folder(marks...))
	}

	doc := kml.KML(kml.Document(children...))
	if err := doc.WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("WriteKML: %w", err)
	}
	return nil
}

func obstaclePlacemark(zone model.ObstacleZone) kml.Element {
	name := zone.Name
	if name == "" {
		name = zone.ID
	}

	var ring []model.GeoPoint
	switch zone.Kind {
	case model.ObstacleKindCircle, model.ObstacleKindCylinder:
		if zone.RadiusMeters <= 0 {
			return nil
		}
		ring = circleRing(zone.Center, zone.RadiusMeters)
	default:
		if len(zone.Vertices) < 3 {
			return nil
		}
		ring = zone.Vertices
	}

	return kml.Placemark(
		kml.Name(name),
		kml.Polygon(
			kml.Tessellate(true),
			kml.OuterBoundaryIs(
				kml.LinearRing(
					kml.Coordinates(ringCoordinates(ring)...),
				),
			),
		),
	)
}

// circleRing approximates a circle as a closed ring of bearings stepped
// around the center.
func circleRing(center model.GeoPoint, radiusMeters float64) []model.GeoPoint {
	ring := make([]model.GeoPoint, 0, circleRingSegments)
	step := 360.0 / float64(circleRingSegments)
	for i := 0; i < circleRingSegments; i++ {
		ring = append(ring, core.Destination(center, radiusMeters, step*float64(i)))
	}
	return ring
}

// ringCoordinates converts a vertex ring into KML coordinates, closing the
// ring by repeating the first vertex.
func ringCoordinates(ring []model.GeoPoint) []kml.Coordinate {
	coords := make([]kml.Coordinate, 0, len(ring)+1)
	for _, p := range ring {
		coords = append(coords, kml.Coordinate{Lon: p.Lon, Lat: p.Lat})
	}
	if len(ring) > 0 {
		coords = append(coords, kml.Coordinate{Lon: ring[0].Lon, Lat: ring[0].Lat})
	}
	return coords
}
