package search

// Node represents a single cell of the grid. Its identity is the
// (column, row) pair; position and size describe where the cell sits on an
// implicit canvas so presentation clients can draw it without recomputing
// the layout. Every field is fixed at Grid construction. Per-search costs
// and parent links live on the Engine, not here, so one grid can back any
// number of independent searches.
type Node struct {
	col      int
	row      int
	walkable bool
	x        int
	y        int
	size     int
}

// GetCol returns the column index of the node.
func (n *Node) GetCol() int {
	return n.col
}

// GetRow returns the row index of the node.
func (n *Node) GetRow() int {
	return n.row
}

// IsWalkable reports whether the node can be entered by a search.
func (n *Node) IsWalkable() bool {
	return n.walkable
}

// GetX returns the horizontal canvas position of the node.
func (n *Node) GetX() int {
	return n.x
}

// GetY returns the vertical canvas position of the node.
func (n *Node) GetY() int {
	return n.y
}

// GetSize returns the side length of the node's cell on the canvas.
func (n *Node) GetSize() int {
	return n.size
}
