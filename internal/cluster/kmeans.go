package cluster

import (
	"math"
	"math/rand"

	"fleetdispatch/internal/geo"
)

// maxIterations caps Lloyd's algorithm; small order sets converge in a
// handful of passes.
const maxIterations = 100

// Partition labels each point with one of k clusters using seeded k-means
// over planar coordinates, so downstream per-vehicle optimization works on
// compact regions instead of the whole order set. Labels index clusters
// 0..k-1. k is clamped to len(points); k <= 0 returns nil.
func Partition(points []geo.Point, k int, seed int64) []int {
	n := len(points)
	if k <= 0 || n == 0 {
		return nil
	}
	if k > n {
		k = n
	}
	rng := rand.New(rand.NewSource(seed))

	// seeded init: k distinct points as starting centroids
	centroids := make([]geo.Point, k)
	for i, pi := range rng.Perm(n)[:k] {
		centroids[i] = points[pi]
	}

	labels := make([]int, n)
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if labels[i] != c {
				labels[i] = c
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// recompute centroids; an emptied cluster is re-seeded from the
		// point farthest from its current centroid
		sums := make([]geo.Point, k)
		counts := make([]int, k)
		for i, p := range points {
			sums[labels[i]].X += p.X
			sums[labels[i]].Y += p.Y
			counts[labels[i]]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				centroids[c] = points[farthest(points, labels, centroids)]
				continue
			}
			centroids[c] = geo.Point{X: sums[c].X / float64(counts[c]), Y: sums[c].Y / float64(counts[c])}
		}
	}
	return labels
}

func nearest(p geo.Point, centroids []geo.Point) int {
	best := 0
	bestD := math.Inf(1)
	for i, c := range centroids {
		dx, dy := p.X-c.X, p.Y-c.Y
		if d := dx*dx + dy*dy; d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}

func farthest(points []geo.Point, labels []int, centroids []geo.Point) int {
	best := 0
	bestD := -1.0
	for i, p := range points {
		c := centroids[labels[i]]
		dx, dy := p.X-c.X, p.Y-c.Y
		if d := dx*dx + dy*dy; d > bestD {
			bestD = d
			best = i
		}
	}
	return best
}
