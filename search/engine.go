package search

import (
	"container/heap"
	"errors"
)

// Status reports where a search stands. InProgress is the only
// non-terminal state; Found and Exhausted are sticky.
type Status int

const (
	StatusInProgress Status = iota
	StatusFound
	StatusExhausted
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusExhausted:
		return "exhausted"
	default:
		return "in_progress"
	}
}

// Engine construction errors.
var (
	ErrNilEndpoint        = errors.New("start and target must be provided")
	ErrForeignNode        = errors.New("node does not belong to the grid")
	ErrUnwalkableEndpoint = errors.New("start and target must be walkable")
)

// Engine runs one A* search over a Grid, one frontier expansion per
// Advance call. Engines are single-use: to search the same grid again,
// create a fresh one. All per-search state (costs, parent links, the open
// and closed sets) is held on the engine, indexed by flat node index, so
// independent engines can share a grid without trampling each other.
type Engine struct {
	grid   *Grid
	start  *Node
	target *Node
	policy CostPolicy
	status Status

	gCost  []int
	hCost  []int
	parent []int // flat index of the expansion predecessor, -1 for none

	open        *frontier
	closed      []bool
	closedOrder []*Node
	expanded    int
}

// NewEngine seeds a search over the grid with the frontier holding only
// the start node. Start and target must be walkable cells of the grid; a
// search that could never succeed is rejected here rather than discovered
// after the fact.
func NewEngine(g *Grid, start, target *Node, policy CostPolicy) (*Engine, error) {
	if start == nil || target == nil {
		return nil, ErrNilEndpoint
	}
	if !g.owns(start) || !g.owns(target) {
		return nil, ErrForeignNode
	}
	if !start.walkable || !target.walkable {
		return nil, ErrUnwalkableEndpoint
	}
	if policy != ManhattanCost && policy != OctileCost {
		return nil, ErrUnknownCostPolicy
	}

	n := len(g.nodes)
	e := &Engine{
		grid:   g,
		start:  start,
		target: target,
		policy: policy,
		gCost:  make([]int, n),
		hCost:  make([]int, n),
		parent: make([]int, n),
		closed: make([]bool, n),
	}
	for i := range e.parent {
		e.parent[i] = -1
	}
	e.open = newFrontier(e)
	e.push(g.index(start))
	return e, nil
}

// Advance performs one frontier expansion and returns the resulting
// status. Calling it after a terminal status is a no-op that returns the
// status unchanged. An Advance that finds the frontier empty transitions
// to Exhausted without expanding anything.
func (e *Engine) Advance() Status {
	if e.status != StatusInProgress {
		return e.status
	}
	if e.open.Len() == 0 {
		e.status = StatusExhausted
		return e.status
	}

	currentIndex := e.pop()
	current := e.grid.nodes[currentIndex]
	e.closed[currentIndex] = true
	e.closedOrder = append(e.closedOrder, current)
	e.expanded++

	if current == e.target {
		e.status = StatusFound
		return e.status
	}

	for _, neighbor := range e.grid.FindNeighbors(current) {
		neighborIndex := e.grid.index(neighbor)
		if e.closed[neighborIndex] || !neighbor.walkable {
			continue
		}

		tentativeG := e.gCost[currentIndex] + e.policy.Distance(current, neighbor)
		inOpen := e.open.contains(neighborIndex)
		if !inOpen || tentativeG < e.gCost[neighborIndex] {
			// A member already on the frontier is updated in place and
			// not re-sifted; its entry keeps a stale priority until it
			// is popped. Carried over from the reference behavior.
			e.gCost[neighborIndex] = tentativeG
			e.hCost[neighborIndex] = e.policy.Distance(neighbor, e.target)
			e.parent[neighborIndex] = currentIndex
		}
		if !inOpen {
			e.push(neighborIndex)
		}
	}
	return e.status
}

func (e *Engine) push(index int) {
	heap.Push(e.open, index)
	e.open.member[index] = struct{}{}
}

func (e *Engine) pop() int {
	index := heap.Pop(e.open).(int)
	delete(e.open.member, index)
	return index
}

// Status returns the current search status.
func (e *Engine) Status() Status {
	return e.status
}

// Start returns the start node of the search.
func (e *Engine) Start() *Node {
	return e.start
}

// Target returns the target node of the search.
func (e *Engine) Target() *Node {
	return e.target
}

// Policy returns the cost policy the search prices moves with.
func (e *Engine) Policy() CostPolicy {
	return e.policy
}

// Expanded returns the number of nodes expanded so far.
func (e *Engine) Expanded() int {
	return e.expanded
}

// OpenNodes returns the frontier members in no particular order.
func (e *Engine) OpenNodes() []*Node {
	nodes := make([]*Node, 0, len(e.open.items))
	for _, index := range e.open.items {
		nodes = append(nodes, e.grid.nodes[index])
	}
	return nodes
}

// ClosedNodes returns the already expanded nodes in expansion order.
func (e *Engine) ClosedNodes() []*Node {
	return e.closedOrder
}

// CostsOf returns the accumulated, heuristic and total cost the search
// currently holds for a node of the engine's grid.
func (e *Engine) CostsOf(n *Node) (gCost, hCost, fCost int) {
	if !e.grid.owns(n) {
		return 0, 0, 0
	}
	index := e.grid.index(n)
	return e.gCost[index], e.hCost[index], e.gCost[index] + e.hCost[index]
}

// PathFromTarget walks the parent chain back from the target and returns
// the path in start-to-target order. It returns nil unless the search has
// found the target.
func (e *Engine) PathFromTarget() []*Node {
	if e.status != StatusFound {
		return nil
	}

	var path []*Node
	for index := e.grid.index(e.target); index >= 0; index = e.parent[index] {
		path = append(path, e.grid.nodes[index])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
