package geocode

import "strings"

// ExtractAddress reduces a "<company>, <city>, <street>" delivery-address
// field to the normalized key used for cache lookups and external
// geocoding. Fields with fewer than two segments pass through unchanged.
func ExtractAddress(field string) string {
	parts := strings.Split(field, ", ")
	if len(parts) >= 3 {
		return parts[2] + ", " + parts[1] + ", Netherlands"
	}
	if len(parts) == 2 {
		return parts[1] + ", Netherlands"
	}
	return field
}
