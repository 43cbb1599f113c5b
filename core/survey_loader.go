// core/survey_loader.go
package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skyroutex/surveyplanner/model"
)

// internal wire shapes – kept unexported so we're free to evolve them
// independently of the model types.
type surveyDoc struct {
	Name              string        `json:"name" yaml:"name"`
	SurveyPolygon     []pointDoc    `json:"surveyPolygon" yaml:"surveyPolygon"`
	Altitude          float64       `json:"altitude" yaml:"altitude"`
	SpacingMeters     float64       `json:"spacingMeters" yaml:"spacingMeters"`
	OverlapFraction   float64       `json:"overlapFraction" yaml:"overlapFraction"`
	SweepAngleDegrees float64       `json:"sweepAngleDegrees" yaml:"sweepAngleDegrees"`
	Obstacles         []obstacleDoc `json:"obstacles" yaml:"obstacles"`
}

type pointDoc struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

type obstacleDoc struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Kind         string     `json:"kind" yaml:"kind"`
	Vertices     []pointDoc `json:"vertices" yaml:"vertices"`
	Center       *pointDoc  `json:"center" yaml:"center"`
	RadiusMeters float64    `json:"radiusMeters" yaml:"radiusMeters"`
	MinAltitude  float64    `json:"minAltitude" yaml:"minAltitude"`
	MaxAltitude  float64    `json:"maxAltitude" yaml:"maxAltitude"`
	Enabled      *bool      `json:"enabled" yaml:"enabled"` // optional; defaults to true
}

// LoadSurveyConfig reads a survey definition from r. Format is "json" or
// "yaml". It fails only on decode / structural errors; semantic validation
// belongs to ValidateConfig, which runs once at the planning boundary.
func LoadSurveyConfig(r io.Reader, format string) (model.SurveyConfig, error) {
	var doc surveyDoc

	switch strings.ToLower(format) {
	case "json", "":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&doc); err != nil {
			return model.SurveyConfig{}, fmt.Errorf("LoadSurveyConfig: decode json: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&doc); err != nil {
			return model.SurveyConfig{}, fmt.Errorf("LoadSurveyConfig: decode yaml: %w", err)
		}
	default:
		return model.SurveyConfig{}, fmt.Errorf("LoadSurveyConfig: unsupported format %q", format)
	}

	cfg := model.SurveyConfig{
		Name:              doc.Name,
		SurveyPolygon:     pointsFromDocs(doc.SurveyPolygon),
		Altitude:          doc.Altitude,
		SpacingMeters:     doc.SpacingMeters,
		OverlapFraction:   doc.OverlapFraction,
		SweepAngleDegrees: doc.SweepAngleDegrees,
	}

	for _, ob := range doc.Obstacles {
		if ob.ID == "" {
			return model.SurveyConfig{}, fmt.Errorf("LoadSurveyConfig: obstacle with empty id")
		}

		enabled := true
		if ob.Enabled != nil {
			enabled = *ob.Enabled
		}

		kind, err := obstacleKindFromString(ob.Kind)
		if err != nil {
			return model.SurveyConfig{}, fmt.Errorf("LoadSurveyConfig: obstacle %q: %w", ob.ID, err)
		}

		zone := model.ObstacleZone{
			ID:           ob.ID,
			Name:         ob.Name,
			Kind:         kind,
			Vertices:     pointsFromDocs(ob.Vertices),
			RadiusMeters: ob.RadiusMeters,
			MinAltitude:  ob.MinAltitude,
			MaxAltitude:  ob.MaxAltitude,
			Enabled:      enabled,
		}
		if ob.Center != nil {
			zone.Center = model.GeoPoint{Lat: ob.Center.Lat, Lon: ob.Center.Lon}
		}

		cfg.Obstacles = append(cfg.Obstacles, zone)
	}

	return cfg, nil
}

// LoadSurveyConfigFile loads a survey definition from disk, picking the
// format from the file extension (.json, .yaml, .yml).
func LoadSurveyConfigFile(path string) (model.SurveyConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.SurveyConfig{}, fmt.Errorf("LoadSurveyConfigFile: %w", err)
	}
	defer f.Close()

	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	return LoadSurveyConfig(f, format)
}

func pointsFromDocs(docs []pointDoc) model.Polygon {
	if len(docs) == 0 {
		return nil
	}
	pts := make(model.Polygon, 0, len(docs))
	for _, d := range docs {
		pts = append(pts, model.GeoPoint{Lat: d.Lat, Lon: d.Lon})
	}
	return pts
}

// obstacleKindFromString maps the wire "kind" string to our ObstacleKind
// constants. Common synonyms are accepted and an absent kind means polygon,
// but anything else is a structural error: a misspelled kind must not
// silently change which shape test the zone gets.
func obstacleKindFromString(s string) (model.ObstacleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "polygon", "poly", "area":
		return model.ObstacleKindPolygon, nil
	case "circle", "circular", "round":
		return model.ObstacleKindCircle, nil
	case "cylinder", "cyl", "column":
		return model.ObstacleKindCylinder, nil
	default:
		return "", fmt.Errorf("unknown obstacle kind %q", s)
	}
}
