package search

// frontier is the open set: a binary min-heap of flat node indexes
// ordered by (fCost, hCost), with a membership set so the engine can test
// openness without scanning. Comparisons read the engine's live cost
// arrays, but a cost lowered in place is deliberately NOT re-sifted: the
// entry keeps its heap position until it is naturally popped. That
// reproduces the reference stale-priority behavior (see Engine.Advance).
type frontier struct {
	eng    *Engine
	items  []int
	member map[int]struct{}
}

func newFrontier(eng *Engine) *frontier {
	return &frontier{
		eng:    eng,
		member: make(map[int]struct{}),
	}
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.items[i], f.items[j]
	fa := f.eng.gCost[a] + f.eng.hCost[a]
	fb := f.eng.gCost[b] + f.eng.hCost[b]
	if fa != fb {
		return fa < fb
	}
	// Smaller heuristic wins on ties, biasing expansion toward the target.
	return f.eng.hCost[a] < f.eng.hCost[b]
}

func (f *frontier) Swap(i, j int) {
	f.items[i], f.items[j] = f.items[j], f.items[i]
}

func (f *frontier) Push(x any) {
	f.items = append(f.items, x.(int))
}

func (f *frontier) Pop() any {
	old := f.items
	n := len(old)
	item := old[n-1]
	f.items = old[:n-1]
	return item
}

func (f *frontier) contains(index int) bool {
	_, ok := f.member[index]
	return ok
}
