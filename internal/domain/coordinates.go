package domain

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lat, lon] for serialized cache entries.
func (c Coordinates) PairList() [2]float64 { return [2]float64{c.Lat, c.Lon} }
