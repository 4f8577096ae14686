package dispatch

import (
	"sort"

	"fleetdispatch/internal/cluster"
	"fleetdispatch/internal/geo"
	"fleetdispatch/internal/model"
)

// Cluster is a geographically coherent subset of orders produced by the
// partitioner; it exists only for the duration of one dispatch run.
type Cluster struct {
	Orders []model.Order
	Demand float64
}

// Assignment pairs one vehicle with the cluster it will serve.
type Assignment struct {
	Vehicle model.Vehicle
	Cluster Cluster
}

// BuildClusters partitions orders into k spatial clusters via seeded
// k-means and aggregates each cluster's demand.
func BuildClusters(orders []model.Order, k int, seed int64) []Cluster {
	points := make([]geo.Point, len(orders))
	for i, o := range orders {
		points[i] = geo.Point{X: o.X, Y: o.Y}
	}
	labels := cluster.Partition(points, k, seed)
	if labels == nil {
		return nil
	}
	byLabel := map[int]*Cluster{}
	order := []int{}
	for i, o := range orders {
		c, ok := byLabel[labels[i]]
		if !ok {
			c = &Cluster{}
			byLabel[labels[i]] = c
			order = append(order, labels[i])
		}
		c.Orders = append(c.Orders, o)
		c.Demand += o.Demand
	}
	sort.Ints(order)
	out := make([]Cluster, 0, len(order))
	for _, l := range order {
		out = append(out, *byLabel[l])
	}
	return out
}

// AssignFleet greedily matches clusters to vehicles, largest first:
// vehicles are taken in descending capacity order and each takes the
// largest-demand remaining cluster it can carry. Clusters no vehicle fits
// are returned as unassigned rather than failing the run, prioritizing
// total coverage over balance.
func AssignFleet(vehicles []model.Vehicle, clusters []Cluster) (assignments []Assignment, unassigned int) {
	remaining := append([]Cluster(nil), clusters...)
	byCapacity := append([]model.Vehicle(nil), vehicles...)
	sort.SliceStable(byCapacity, func(i, j int) bool { return byCapacity[i].Capacity > byCapacity[j].Capacity })

	for _, v := range byCapacity {
		if len(remaining) == 0 {
			break
		}
		sort.SliceStable(remaining, func(i, j int) bool { return remaining[i].Demand > remaining[j].Demand })
		picked := -1
		for i, c := range remaining {
			if c.Demand <= v.Capacity {
				picked = i
				break
			}
		}
		if picked < 0 {
			continue
		}
		assignments = append(assignments, Assignment{Vehicle: v, Cluster: remaining[picked]})
		remaining = append(remaining[:picked], remaining[picked+1:]...)
	}
	return assignments, len(remaining)
}
