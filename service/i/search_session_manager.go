package i

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/pathfinder-api/search"
	"github.com/google/uuid"
)

// Session lookup and archive errors shared by manager implementations.
var (
	ErrSessionNotFound    = errors.New("no search session with that id")
	ErrInvalidStepCount   = errors.New("step count must be positive")
	ErrRunArchiveDisabled = errors.New("run archive is not configured")
)

// CellView is one grid cell as exposed to presentation clients, combining
// the cell's fixed layout with the costs the search currently holds for it.
type CellView struct {
	Col      int  `json:"col"`
	Row      int  `json:"row"`
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Size     int  `json:"size"`
	Walkable bool `json:"walkable"`
	GCost    int  `json:"gCost"`
	HCost    int  `json:"hCost"`
	FCost    int  `json:"fCost"`
}

// GridView is the full cell layout of a session, for the initial render.
type GridView struct {
	ID     uuid.UUID  `json:"id"`
	Cols   int        `json:"cols"`
	Rows   int        `json:"rows"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Cells  []CellView `json:"cells"`
}

// SessionView is the per-tick read surface of a running search: frontier,
// visited set, path so far and status.
type SessionView struct {
	ID       uuid.UUID  `json:"id"`
	Status   string     `json:"status"`
	Policy   string     `json:"policy"`
	Expanded int        `json:"expanded"`
	Start    CellView   `json:"start"`
	Target   CellView   `json:"target"`
	Open     []CellView `json:"open"`
	Closed   []CellView `json:"closed"`
	Path     []CellView `json:"path"`
}

// RunRecord summarizes a finished search for the run archive. It carries
// counts only, never the path itself.
type RunRecord struct {
	ID         uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	Policy     string    `json:"policy"`
	Cols       int       `json:"cols"`
	Rows       int       `json:"rows"`
	Expanded   int       `json:"expanded"`
	PathLen    int       `json:"pathLen"`
	FinishedAt time.Time `json:"finishedAt"`
}

// SearchSessionManager owns live grid+engine pairs and drives them on
// behalf of presentation clients.
type SearchSessionManager interface {
	// NewSession builds a grid and a search over it, returning the
	// session id and the grid layout for the initial render.
	NewSession(cfg search.GridConfig, policy search.CostPolicy) (GridView, error)

	// Advance steps the session's engine up to the given number of
	// expansions, stopping early on a terminal status.
	Advance(id uuid.UUID, steps int) (SessionView, error)

	// Snapshot returns the session's current read surface without
	// advancing it.
	Snapshot(id uuid.UUID) (SessionView, error)

	// GridSnapshot returns the session's full cell layout.
	GridSnapshot(id uuid.UUID) (GridView, error)

	// Drop removes a session.
	Drop(id uuid.UUID) error

	// TopRuns lists archived finished runs with the fewest expansions.
	TopRuns(ctx context.Context, limit int64) ([]RunRecord, error)
}
