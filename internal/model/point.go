package model

type Point struct {
	ID           int64
	Name         string
	Description  string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	ImageURL     string
	Category     string
	IsActive     bool
}
