/*
Package search implements step-wise A* pathfinding over a rectangular grid
with randomly placed obstacles.

It defines the `Grid` of `Node` cells, selectable distance policies
(Manhattan and octile-weighted), and the `Engine` state machine that
expands a single frontier node per call, so a caller can drive an animated
visualization one expansion per frame.

Grid layout is column-major: nodes are stored in a flat slice indexed by
`col*rows + row`, matching the neighbor arithmetic in FindNeighbors.
*/
package search

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Grid construction errors.
var (
	ErrInvalidDimensions = errors.New("grid dimensions and cell size must be positive")
	ErrInvalidMargin     = errors.New("cell margin must not be negative")
	ErrInvalidDensity    = errors.New("obstacle density divisor must be at least 1")
	ErrOutOfBounds       = errors.New("cell position is outside the grid")
)

// GridConfig holds the construction-time parameters of a Grid. All fields
// are immutable once the grid is built.
type GridConfig struct {
	Cols            int     // Number of columns
	Rows            int     // Number of rows
	CellSize        int     // Side length of each cell on the canvas
	Margin          int     // Gap between adjacent cells on the canvas
	ObstacleDensity float64 // Obstacle count is floor(Cols*Rows / ObstacleDensity)
	Seed            int64   // Obstacle layout seed; 0 draws a time-based seed
}

// Grid owns all nodes of a rectangular search area. Walkability is decided
// once, during obstacle generation, and never changes afterwards.
type Grid struct {
	cols     int
	rows     int
	cellSize int
	margin   int
	nodes    []*Node
}

// NewGrid allocates a Cols x Rows grid, lays its cells out on the canvas
// and marks a random subset of them non-walkable. The first and last cells
// of the flat layout stay walkable no matter where the random draws land,
// so a corner-to-corner search never starts or ends inside an obstacle.
func NewGrid(cfg GridConfig) (*Grid, error) {
	if cfg.Cols <= 0 || cfg.Rows <= 0 || cfg.CellSize <= 0 {
		return nil, ErrInvalidDimensions
	}
	if cfg.Margin < 0 {
		return nil, ErrInvalidMargin
	}
	if cfg.ObstacleDensity < 1 {
		return nil, ErrInvalidDensity
	}

	g := &Grid{
		cols:     cfg.Cols,
		rows:     cfg.Rows,
		cellSize: cfg.CellSize,
		margin:   cfg.Margin,
		nodes:    make([]*Node, 0, cfg.Cols*cfg.Rows),
	}

	for x := 0; x < cfg.Cols; x++ {
		for y := 0; y < cfg.Rows; y++ {
			g.nodes = append(g.nodes, &Node{
				col:      x,
				row:      y,
				walkable: true,
				x:        cfg.Margin*(x+1) + cfg.CellSize*x,
				y:        cfg.Margin*(y+1) + cfg.CellSize*y,
				size:     cfg.CellSize,
			})
		}
	}

	g.generateObstacles(cfg)
	return g, nil
}

// generateObstacles marks floor(n/density) randomly drawn cells
// non-walkable. Draws cover the flat index range [1, n-2], so the two
// corner cells are never drawn; they are forced walkable afterwards anyway
// in case a future exclusion range stops guaranteeing that.
func (g *Grid) generateObstacles(cfg GridConfig) {
	n := g.cols * g.rows
	if n < 3 {
		return
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	count := int(math.Floor(float64(n) / cfg.ObstacleDensity))
	for i := 0; i < count; i++ {
		g.nodes[rng.Intn(n-2)+1].walkable = false
	}

	g.nodes[0].walkable = true
	g.nodes[n-1].walkable = true
}

// index returns the flat slice index of a node.
func (g *Grid) index(n *Node) int {
	return n.col*g.rows + n.row
}

// owns reports whether the node is one of this grid's own cells.
func (g *Grid) owns(n *Node) bool {
	if n == nil {
		return false
	}
	i := g.index(n)
	return i >= 0 && i < len(g.nodes) && g.nodes[i] == n
}

// FindNeighbors returns the up-to-8 cells surrounding a node. Vertical
// neighbors are always candidates; horizontal and diagonal ones only when
// the node is not on the first or last row, which keeps the flat-index
// arithmetic from wrapping to the opposite row edge of an adjacent column.
// Candidates outside the grid are dropped silently. Walkability is NOT
// filtered here; that is the searching caller's concern.
func (g *Grid) FindNeighbors(n *Node) []*Node {
	index := g.index(n)
	candidates := []int{index + g.rows, index - g.rows}
	if n.row != 0 {
		candidates = append(candidates, index-g.rows-1, index-1, index+g.rows-1)
	}
	if n.row != g.rows-1 {
		candidates = append(candidates, index-g.rows+1, index+1, index+g.rows+1)
	}

	neighbors := make([]*Node, 0, len(candidates))
	for _, i := range candidates {
		if i >= 0 && i < len(g.nodes) {
			neighbors = append(neighbors, g.nodes[i])
		}
	}
	return neighbors
}

// Nodes returns every node of the grid in flat column-major order.
func (g *Grid) Nodes() []*Node {
	return g.nodes
}

// NodeAt returns the node at the given column and row.
func (g *Grid) NodeAt(col, row int) (*Node, error) {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return nil, ErrOutOfBounds
	}
	return g.nodes[col*g.rows+row], nil
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Width returns the canvas width covered by the grid.
func (g *Grid) Width() int {
	return (g.cellSize+g.margin)*g.cols + g.margin
}

// Height returns the canvas height covered by the grid.
func (g *Grid) Height() int {
	return (g.cellSize+g.margin)*g.rows + g.margin
}

// String provides a textual representation of the grid, one character per
// cell: '#' for obstacles and '.' for walkable cells.
func (g *Grid) String() string {
	var b strings.Builder
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if g.nodes[col*g.rows+row].walkable {
				b.WriteByte('.')
			} else {
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
