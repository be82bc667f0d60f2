package utils

import "math"

const earthRadiusMiles = 3958.8

// HaversineMiles returns the great-circle distance between two points in miles.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// ValidateCoordinates checks that lat/lon are inside WGS84 bounds.
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Round1 rounds to one decimal place, the precision scores are reported at.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
