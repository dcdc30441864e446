package service

import "math"

// Mean Earth radius in meters, as used by the haversine formula.
const earthRadiusMeters = 6371000

// Distance returns the great-circle distance in meters between two
// coordinates given in degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// WithinRadius reports the distance from (lat, lon) to the point's center and
// whether it falls inside the point's geofence. Callers must validate the
// coordinates first.
func WithinRadius(lat, lon, pointLat, pointLon, radiusMeters float64) (float64, bool) {
	distance := Distance(lat, lon, pointLat, pointLon)
	return distance, distance <= radiusMeters
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
