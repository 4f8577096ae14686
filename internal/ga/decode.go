package ga

// decode splits a permutation of stop indices into capacity-respecting
// trips by first-fit along the sequence: demand accumulates into the
// current trip and a new trip opens when the next stop would not fit. The
// genetic search only optimizes stop order; this split enforces capacity
// mechanically.
//
// A stop whose demand alone exceeds the capacity becomes a one-stop trip
// and contributes its excess to the returned overload, so the fitness
// penalty surfaces the infeasibility instead of silently clipping it.
func (in *instance) decode(perm []int) (trips [][]int, overload float64) {
	cap := in.p.Capacity
	var cur []int
	load := 0.0
	for _, idx := range perm {
		d := in.p.Stops[idx].Demand
		if len(cur) > 0 && load+d > cap {
			trips = append(trips, cur)
			cur = []int{idx}
			load = d
		} else {
			cur = append(cur, idx)
			load += d
		}
		if d > cap {
			overload += d - cap
		}
	}
	if len(cur) > 0 {
		trips = append(trips, cur)
	}
	return trips, overload
}
