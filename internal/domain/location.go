package domain

import (
	"regexp"
	"strings"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Matches "lat, lon" strings so explicit coordinate pairs skip geocoding.
var coordMatch = regexp.MustCompile(`^([-+]?)([\d]{1,2})(((\.)(\d+)(,)))(\s*)(([-+]?)([\d]{1,3})((\.)(\d+))?)$`)

// NormalizeLocation produces the canonical cache-key form of a location:
// lowercased with collapsed whitespace. Addresses and their coordinate
// equivalents normalize to different keys and never collide.
func NormalizeLocation(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// IsCoordinateString reports whether the location is an explicit
// "lat, lon" pair rather than an address to resolve.
func IsCoordinateString(s string) bool {
	return coordMatch.MatchString(strings.TrimSpace(s))
}
