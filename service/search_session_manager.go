// Package service hosts the application services that sit between the
// HTTP surface and the search core.
package service

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/beka-birhanu/pathfinder-api/config"
	"github.com/beka-birhanu/pathfinder-api/search"
	"github.com/beka-birhanu/pathfinder-api/service/i"
	"github.com/google/uuid"
)

const (
	runArchiveKey     = "pathfinder:runs"
	runArchiveTimeout = 2 * time.Second
)

type searchSession struct {
	grid     *search.Grid
	engine   *search.Engine
	cfg      search.GridConfig
	recorded bool
}

// SearchSessionManager owns all live searches, keyed by session id. Each
// engine is only ever stepped while the manager's lock is held, which
// keeps the single-threaded stepping contract of the core.
type SearchSessionManager struct {
	sessions   map[uuid.UUID]*searchSession
	runArchive i.SortedQueue
	logger     *log.Logger
	sync.RWMutex
}

// Config holds dependencies for creating a SearchSessionManager.
type Config struct {
	RunArchive i.SortedQueue // Optional; nil disables run records
	Logger     *log.Logger
}

// NewSearchSessionManager creates a manager with the given dependencies.
func NewSearchSessionManager(c *Config) (*SearchSessionManager, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "", log.LstdFlags)
	}

	return &SearchSessionManager{
		sessions:   make(map[uuid.UUID]*searchSession),
		runArchive: c.RunArchive,
		logger:     logger,
	}, nil
}

// NewSession builds a grid from the given config and seeds a search from
// its first to its last cell, the two corners the grid construction keeps
// walkable.
func (m *SearchSessionManager) NewSession(cfg search.GridConfig, policy search.CostPolicy) (i.GridView, error) {
	grid, err := search.NewGrid(cfg)
	if err != nil {
		m.logger.Printf("%s[ERROR]%s creating grid for a new search: %s", config.LogErrorColor, config.LogColorReset, err)
		return i.GridView{}, err
	}

	nodes := grid.Nodes()
	engine, err := search.NewEngine(grid, nodes[0], nodes[len(nodes)-1], policy)
	if err != nil {
		m.logger.Printf("%s[ERROR]%s creating engine for a new search: %s", config.LogErrorColor, config.LogColorReset, err)
		return i.GridView{}, err
	}

	m.Lock()
	defer m.Unlock()

	id := uuid.New()
	for {
		if _, ok := m.sessions[id]; !ok {
			break
		}
		id = uuid.New()
	}
	m.sessions[id] = &searchSession{grid: grid, engine: engine, cfg: cfg}

	m.logger.Printf("%s[INFO]%s started search session %s (%dx%d, %s)", config.LogInfoColor, config.LogColorReset, id, cfg.Cols, cfg.Rows, policy)
	return gridView(id, grid, engine), nil
}

// Advance steps the session's engine up to `steps` expansions, stopping
// early once the search leaves InProgress, and returns the resulting
// state. The first advance that lands on a terminal status records the
// run in the archive; a failed archive write is retried by the next
// advance on the same session.
func (m *SearchSessionManager) Advance(id uuid.UUID, steps int) (i.SessionView, error) {
	if steps <= 0 {
		return i.SessionView{}, i.ErrInvalidStepCount
	}

	m.Lock()
	session, ok := m.sessions[id]
	if !ok {
		m.Unlock()
		return i.SessionView{}, i.ErrSessionNotFound
	}

	for step := 0; step < steps; step++ {
		if session.engine.Advance() != search.StatusInProgress {
			break
		}
	}

	view := sessionView(id, session.engine)
	record, shouldRecord := m.terminalRecordLocked(id, session)
	m.Unlock()

	if shouldRecord && !m.recordRun(record) {
		m.Lock()
		session.recorded = false
		m.Unlock()
	}
	return view, nil
}

// Snapshot returns the session's current state without advancing it.
func (m *SearchSessionManager) Snapshot(id uuid.UUID) (i.SessionView, error) {
	m.RLock()
	defer m.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return i.SessionView{}, i.ErrSessionNotFound
	}
	return sessionView(id, session.engine), nil
}

// GridSnapshot returns the full cell layout of the session's grid.
func (m *SearchSessionManager) GridSnapshot(id uuid.UUID) (i.GridView, error) {
	m.RLock()
	defer m.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return i.GridView{}, i.ErrSessionNotFound
	}
	return gridView(id, session.grid, session.engine), nil
}

// Drop removes a session.
func (m *SearchSessionManager) Drop(id uuid.UUID) error {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return i.ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.logger.Printf("%s[INFO]%s dropped search session %s", config.LogInfoColor, config.LogColorReset, id)
	return nil
}

// Count returns the number of live sessions.
func (m *SearchSessionManager) Count() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.sessions)
}

// TopRuns lists archived finished runs, cheapest expansions first.
func (m *SearchSessionManager) TopRuns(ctx context.Context, limit int64) ([]i.RunRecord, error) {
	if m.runArchive == nil {
		return nil, i.ErrRunArchiveDisabled
	}

	rows, err := m.runArchive.Tops(ctx, runArchiveKey, limit)
	if err != nil {
		m.logger.Printf("%s[ERROR]%s reading run archive: %s", config.LogErrorColor, config.LogColorReset, err)
		return nil, err
	}

	records := make([]i.RunRecord, 0, len(rows))
	for _, row := range rows {
		var record i.RunRecord
		if err := json.Unmarshal([]byte(row), &record); err != nil {
			m.logger.Printf("%s[WARN]%s malformed run record in archive: %s", config.LogWarnColor, config.LogColorReset, err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// terminalRecordLocked builds the archive record for a session that just
// reached a terminal status and marks the session recorded; the caller
// clears the mark again if the archive write fails. Must be called with
// the write lock held.
func (m *SearchSessionManager) terminalRecordLocked(id uuid.UUID, session *searchSession) (i.RunRecord, bool) {
	if m.runArchive == nil || session.recorded || session.engine.Status() == search.StatusInProgress {
		return i.RunRecord{}, false
	}

	session.recorded = true
	return i.RunRecord{
		ID:         id,
		Status:     session.engine.Status().String(),
		Policy:     session.engine.Policy().String(),
		Cols:       session.cfg.Cols,
		Rows:       session.cfg.Rows,
		Expanded:   session.engine.Expanded(),
		PathLen:    len(session.engine.PathFromTarget()),
		FinishedAt: time.Now().UTC(),
	}, true
}

func (m *SearchSessionManager) recordRun(record i.RunRecord) bool {
	payload, err := json.Marshal(record)
	if err != nil {
		m.logger.Printf("%s[ERROR]%s encoding run record: %s", config.LogErrorColor, config.LogColorReset, err)
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), runArchiveTimeout)
	defer cancel()
	if err := m.runArchive.Enqueue(ctx, runArchiveKey, float64(record.Expanded), string(payload)); err != nil {
		m.logger.Printf("%s[ERROR]%s archiving run %s: %s", config.LogErrorColor, config.LogColorReset, record.ID, err)
		return false
	}
	m.logger.Printf("%s[INFO]%s archived %s run %s after %d expansions", config.LogInfoColor, config.LogColorReset, record.Status, record.ID, record.Expanded)
	return true
}

func cellView(n *search.Node, engine *search.Engine) i.CellView {
	gCost, hCost, fCost := engine.CostsOf(n)
	return i.CellView{
		Col:      n.GetCol(),
		Row:      n.GetRow(),
		X:        n.GetX(),
		Y:        n.GetY(),
		Size:     n.GetSize(),
		Walkable: n.IsWalkable(),
		GCost:    gCost,
		HCost:    hCost,
		FCost:    fCost,
	}
}

func cellViews(nodes []*search.Node, engine *search.Engine) []i.CellView {
	views := make([]i.CellView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, cellView(n, engine))
	}
	return views
}

func sessionView(id uuid.UUID, engine *search.Engine) i.SessionView {
	return i.SessionView{
		ID:       id,
		Status:   engine.Status().String(),
		Policy:   engine.Policy().String(),
		Expanded: engine.Expanded(),
		Start:    cellView(engine.Start(), engine),
		Target:   cellView(engine.Target(), engine),
		Open:     cellViews(engine.OpenNodes(), engine),
		Closed:   cellViews(engine.ClosedNodes(), engine),
		Path:     cellViews(engine.PathFromTarget(), engine),
	}
}

func gridView(id uuid.UUID, grid *search.Grid, engine *search.Engine) i.GridView {
	return i.GridView{
		ID:     id,
		Cols:   grid.Cols(),
		Rows:   grid.Rows(),
		Width:  grid.Width(),
		Height: grid.Height(),
		Cells:  cellViews(grid.Nodes(), engine),
	}
}

var _ i.SearchSessionManager = (*SearchSessionManager)(nil)
