package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdispatch/internal/geo"
)

func TestPartitionSeparatesObviousGroups(t *testing.T) {
	points := []geo.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
		{X: 100, Y: 100}, {X: 101, Y: 100}, {X: 100, Y: 101},
	}
	labels := Partition(points, 2, 42)
	require.Len(t, labels, 6)

	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[0], labels[2])
	assert.Equal(t, labels[3], labels[4])
	assert.Equal(t, labels[3], labels[5])
	assert.NotEqual(t, labels[0], labels[3], "far groups must land in different clusters")
}

func TestPartitionDeterministicUnderSeed(t *testing.T) {
	points := []geo.Point{
		{X: 3, Y: 7}, {X: 9, Y: 2}, {X: 4, Y: 4}, {X: 8, Y: 9}, {X: 1, Y: 1},
	}
	a := Partition(points, 2, 7)
	b := Partition(points, 2, 7)
	assert.Equal(t, a, b)
}

func TestPartitionClampsK(t *testing.T) {
	points := []geo.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	labels := Partition(points, 5, 1)
	require.Len(t, labels, 2)
	for _, l := range labels {
		assert.Less(t, l, 2)
	}
}

func TestPartitionEmptyInputs(t *testing.T) {
	assert.Nil(t, Partition(nil, 2, 1))
	assert.Nil(t, Partition([]geo.Point{{X: 1, Y: 1}}, 0, 1))
}
