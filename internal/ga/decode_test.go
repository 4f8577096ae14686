package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFirstFitSplit(t *testing.T) {
	in := newInstance(Problem{
		Depot: Stop{ID: 0},
		Stops: []Stop{
			{ID: 1, Demand: 4},
			{ID: 2, Demand: 4},
			{ID: 3, Demand: 4},
			{ID: 4, Demand: 4},
		},
		Capacity: 10,
	})

	trips, overload := in.decode([]int{0, 1, 2, 3})
	assert.Zero(t, overload)
	require.Len(t, trips, 2)
	assert.Equal(t, []int{0, 1}, trips[0])
	assert.Equal(t, []int{2, 3}, trips[1])
}

func TestDecodeOversizedStopGetsOwnTrip(t *testing.T) {
	in := newInstance(Problem{
		Depot: Stop{ID: 0},
		Stops: []Stop{
			{ID: 1, Demand: 3},
			{ID: 2, Demand: 15},
			{ID: 3, Demand: 3},
		},
		Capacity: 10,
	})

	trips, overload := in.decode([]int{0, 1, 2})
	assert.InDelta(t, 5, overload, 1e-9, "15 over capacity 10")
	require.Len(t, trips, 3)
	assert.Equal(t, []int{1}, trips[1], "oversized stop is isolated, not clipped")
}

func TestDecodeEmptyPermutation(t *testing.T) {
	in := newInstance(Problem{Depot: Stop{ID: 0}, Capacity: 10})
	trips, overload := in.decode(nil)
	assert.Empty(t, trips)
	assert.Zero(t, overload)
}

func TestFitnessIsPureAndPenalizesOverload(t *testing.T) {
	feasible := newInstance(Problem{
		Depot:    Stop{ID: 0},
		Stops:    []Stop{{ID: 1, X: 3, Y: 4, Demand: 5}},
		Capacity: 10,
	})
	// depot -> stop -> depot is 10 with no penalty
	assert.InDelta(t, 10, feasible.fitness([]int{0}), 1e-9)
	assert.Equal(t, feasible.fitness([]int{0}), feasible.fitness([]int{0}))

	overloaded := newInstance(Problem{
		Depot:    Stop{ID: 0},
		Stops:    []Stop{{ID: 1, X: 3, Y: 4, Demand: 12}},
		Capacity: 10,
	})
	assert.InDelta(t, 10+2*overloadPenalty, overloaded.fitness([]int{0}), 1e-9)
}
