package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrontierKeepsStalePriorities(t *testing.T) {
	e := &Engine{
		gCost: make([]int, 8),
		hCost: make([]int, 8),
	}
	e.open = newFrontier(e)

	e.gCost[1], e.hCost[1] = 4, 6
	e.gCost[2], e.hCost[2] = 10, 10
	e.gCost[3], e.hCost[3] = 20, 10
	e.push(1)
	e.push(2)
	e.push(3)

	// Improve an in-open member the way Advance does: the cost arrays
	// change in place, the heap position does not.
	e.gCost[3], e.hCost[3] = 1, 1

	assert.Equal(t, 1, e.pop(), "stale root pops before the now-cheapest member")
	assert.Equal(t, 3, e.pop())
	assert.Equal(t, 2, e.pop())
	assert.False(t, e.open.contains(3))
}

func TestFrontierMembership(t *testing.T) {
	e := &Engine{
		gCost: make([]int, 4),
		hCost: make([]int, 4),
	}
	e.open = newFrontier(e)

	assert.False(t, e.open.contains(2))
	e.push(2)
	assert.True(t, e.open.contains(2))
	assert.Equal(t, 1, e.open.Len())
	assert.Equal(t, 2, e.pop())
	assert.False(t, e.open.contains(2))
	assert.Equal(t, 0, e.open.Len())
}
