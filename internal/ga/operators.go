package ga

import "math/rand"

// tournamentSelect draws one parent per population slot: k random
// individuals compete and the lowest fitness wins.
func tournamentSelect(pop [][]int, fit []float64, k int, rng *rand.Rand) [][]int {
	n := len(pop)
	if k > n {
		k = n
	}
	out := make([][]int, n)
	for i := range out {
		win := rng.Intn(n)
		for j := 1; j < k; j++ {
			c := rng.Intn(n)
			if fit[c] < fit[win] {
				win = c
			}
		}
		out[i] = pop[win]
	}
	return out
}

// orderCrossover is OX1: each child inherits a contiguous slice from one
// parent and fills the remaining positions from the other parent in
// relative order, so children are always valid permutations.
func orderCrossover(p1, p2 []int, rng *rand.Rand) ([]int, []int) {
	size := len(p1)
	if size < 2 {
		return append([]int(nil), p1...), append([]int(nil), p2...)
	}
	start := rng.Intn(size)
	end := rng.Intn(size)
	if start > end {
		start, end = end, start
	}
	c1 := oxChild(p1, p2, start, end, size)
	c2 := oxChild(p2, p1, start, end, size)
	return c1, c2
}

func oxChild(keep, fill []int, start, end, size int) []int {
	child := make([]int, size)
	taken := make(map[int]bool, end-start)
	for i := start; i < end; i++ {
		child[i] = keep[i]
		taken[keep[i]] = true
	}
	fi := 0
	for i := 0; i < size; i++ {
		if i >= start && i < end {
			continue
		}
		for taken[fill[fi]] {
			fi++
		}
		child[i] = fill[fi]
		fi++
	}
	return child
}

// swapMutate exchanges two random positions with the configured
// probability. Swapping preserves permutation validity.
func swapMutate(perm []int, rate float64, rng *rand.Rand) {
	if rng.Float64() >= rate || len(perm) < 2 {
		return
	}
	i := rng.Intn(len(perm))
	j := rng.Intn(len(perm) - 1)
	if j >= i {
		j++
	}
	perm[i], perm[j] = perm[j], perm[i]
}
