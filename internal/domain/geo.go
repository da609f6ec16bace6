package domain

import "math"

// Mean Earth radius in kilometers.
const earthRadiusKm = 6371

// Haversine returns the great-circle distance between two points in
// kilometers.
func Haversine(a, b Coordinates) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// RouteDistance sums the distances over each consecutive pair of an
// ordered path. Sequences of length 0 or 1 have zero distance.
func RouteDistance(coords []Coordinates) float64 {
	total := 0.0
	for i := 0; i < len(coords)-1; i++ {
		total += Haversine(coords[i], coords[i+1])
	}
	return total
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
