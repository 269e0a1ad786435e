package search

import (
	"errors"
	"fmt"
	"strings"
)

// CostPolicy selects how the distance between two cells is priced. The
// same policy prices both edge costs and the heuristic estimate, which
// keeps the heuristic consistent with the movement costs it predicts.
type CostPolicy int

const (
	// ManhattanCost prices any move at |dCol| + |dRow|, so a diagonal
	// step costs the same as its two orthogonal components.
	ManhattanCost CostPolicy = iota

	// OctileCost prices diagonal steps at 14 and orthogonal steps at 10,
	// the usual integer approximation of sqrt(2):1 movement costs on an
	// 8-connected grid.
	OctileCost
)

// ErrUnknownCostPolicy is returned for a policy name or value outside the
// known variants.
var ErrUnknownCostPolicy = errors.New("unknown cost policy")

// ParseCostPolicy maps the configuration names "manhattan" and "octile"
// to their policies.
func ParseCostPolicy(name string) (CostPolicy, error) {
	switch strings.ToLower(name) {
	case "manhattan":
		return ManhattanCost, nil
	case "octile":
		return OctileCost, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCostPolicy, name)
	}
}

// String returns the configuration name of the policy.
func (p CostPolicy) String() string {
	if p == OctileCost {
		return "octile"
	}
	return "manhattan"
}

// Distance returns the policy's distance between two cells.
func (p CostPolicy) Distance(a, b *Node) int {
	dc := abs(a.col - b.col)
	dr := abs(a.row - b.row)

	if p == OctileCost {
		if dc < dr {
			return 14*dc + 10*(dr-dc)
		}
		return 14*dr + 10*(dc-dr)
	}
	return dc + dr
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
