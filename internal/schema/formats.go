// Package schema defines custom JSON Schema formats for survey documents.
package schema

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

// missionIDFormatChecker implements gojsonschema.FormatChecker for mission_id.
type missionIDFormatChecker struct{}

// IsFormat validates that the input is a valid UUID.
func (c missionIDFormatChecker) IsFormat(input interface{}) bool {
	if s, ok := input.(string); ok {
		_, err := uuid.Parse(s)
		return err == nil
	}
	return false
}

// zoneIDFormatChecker implements gojsonschema.FormatChecker for zone_id.
type zoneIDFormatChecker struct{}

// IsFormat validates that the input is a valid zone ID (UUID or semantic).
func (c zoneIDFormatChecker) IsFormat(input interface{}) bool {
	if s, ok := input.(string); ok {
		if len(s) == 0 {
			return false
		}
		// Accept UUIDs
		if _, err := uuid.Parse(s); err == nil {
			return true
		}
		// Accept semantic IDs: letters, digits, hyphens, underscores, dots
		matched, _ := regexp.MatchString(`^[a-zA-Z0-9._-]+$`, s)
		return matched
	}
	return false
}

// RegisterCustomFormats registers mission_id and zone_id formats.
func RegisterCustomFormats() {
	gojsonschema.FormatCheckers.Add("mission_id", missionIDFormatChecker{})
	gojsonschema.FormatCheckers.Add("zone_id", zoneIDFormatChecker{})
}
