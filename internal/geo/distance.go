package geo

import "math"

// Point is a planar coordinate (x longitude-like, y latitude-like).
type Point struct {
	X, Y float64
}

// Metric computes the travel cost between two points. Implementations must
// be symmetric, non-negative, and zero for identical points, so callers can
// swap in a road-network-aware metric without changing anything else.
type Metric interface {
	Distance(a, b Point) float64
}

// Euclidean is the default straight-line metric, a reasonable proxy when a
// road distance provider is unavailable.
type Euclidean struct{}

func (Euclidean) Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Haversine treats coordinates as lng/lat degrees and returns meters on a
// spherical earth. Useful when inputs are real geographic coordinates.
type Haversine struct{}

func (Haversine) Distance(a, b Point) float64 {
	const R = 6371000.0
	lat1 := a.Y * math.Pi / 180
	lat2 := b.Y * math.Pi / 180
	dLat := (b.Y - a.Y) * math.Pi / 180
	dLon := (b.X - a.X) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return R * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
