package geo

import (
	"math"
	"testing"
)

func TestEuclidean(t *testing.T) {
	m := Euclidean{}
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}
	if d := m.Distance(a, b); d != 5 {
		t.Fatalf("distance = %v, want 5", d)
	}
	if d := m.Distance(b, a); d != 5 {
		t.Fatalf("not symmetric: %v", d)
	}
	if d := m.Distance(a, a); d != 0 {
		t.Fatalf("identical points: %v, want 0", d)
	}
}

func TestHaversine(t *testing.T) {
	m := Haversine{}
	// one degree of latitude is roughly 111.2 km
	a := Point{X: 0, Y: 0}
	b := Point{X: 0, Y: 1}
	d := m.Distance(a, b)
	if math.Abs(d-111195) > 200 {
		t.Fatalf("1 degree lat = %v m, want ~111195", d)
	}
	if m.Distance(a, b) != m.Distance(b, a) {
		t.Fatalf("not symmetric")
	}
}
