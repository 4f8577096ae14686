package ga

import "fleetdispatch/internal/geo"

// overloadPenalty scales each unit of demand above capacity so that any
// feasible plan outranks any overloaded one of comparable length.
const overloadPenalty = 1000.0

// instance precomputes the pairwise cost matrix for one problem. Index 0 is
// the depot; customer stop i lives at matrix index i+1.
type instance struct {
	p      Problem
	matrix [][]float64
}

func newInstance(p Problem) *instance {
	m := p.Metric
	if m == nil {
		m = geo.Euclidean{}
	}
	pts := make([]geo.Point, len(p.Stops)+1)
	pts[0] = geo.Point{X: p.Depot.X, Y: p.Depot.Y}
	for i, s := range p.Stops {
		pts[i+1] = geo.Point{X: s.X, Y: s.Y}
	}
	mat := make([][]float64, len(pts))
	for i := range mat {
		mat[i] = make([]float64, len(pts))
		for j := range mat[i] {
			mat[i][j] = m.Distance(pts[i], pts[j])
		}
	}
	return &instance{p: p, matrix: mat}
}

// fitness scores a permutation of stop indices: total decoded trip distance
// plus the overload penalty. Pure function of the permutation and instance.
func (in *instance) fitness(perm []int) float64 {
	trips, overload := in.decode(perm)
	return in.routeDistance(trips) + overload*overloadPenalty
}

// routeDistance sums depot->stops->depot length over all trips.
func (in *instance) routeDistance(trips [][]int) float64 {
	total := 0.0
	for _, tr := range trips {
		prev := 0
		for _, idx := range tr {
			total += in.matrix[prev][idx+1]
			prev = idx + 1
		}
		total += in.matrix[prev][0]
	}
	return total
}

// ids maps stop indices back to caller-visible stop IDs.
func (in *instance) ids(perm []int) []int {
	out := make([]int, len(perm))
	for i, idx := range perm {
		out[i] = in.p.Stops[idx].ID
	}
	return out
}
