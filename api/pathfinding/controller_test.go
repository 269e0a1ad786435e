package pathfinding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/beka-birhanu/pathfinder-api/search"
	"github.com/beka-birhanu/pathfinder-api/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubSessionManager records the calls the controller makes and returns
// canned responses.
type stubSessionManager struct {
	lastGridConfig search.GridConfig
	lastPolicy     search.CostPolicy
	lastSteps      int
	knownID        uuid.UUID
	runs           []i.RunRecord
	archiveEnabled bool
}

func (s *stubSessionManager) NewSession(cfg search.GridConfig, policy search.CostPolicy) (i.GridView, error) {
	s.lastGridConfig = cfg
	s.lastPolicy = policy
	if _, err := search.NewGrid(cfg); err != nil {
		return i.GridView{}, err
	}
	return i.GridView{ID: s.knownID, Cols: cfg.Cols, Rows: cfg.Rows}, nil
}

func (s *stubSessionManager) Advance(id uuid.UUID, steps int) (i.SessionView, error) {
	if steps <= 0 {
		return i.SessionView{}, i.ErrInvalidStepCount
	}
	if id != s.knownID {
		return i.SessionView{}, i.ErrSessionNotFound
	}
	s.lastSteps = steps
	return i.SessionView{ID: id, Status: "in_progress", Expanded: steps}, nil
}

func (s *stubSessionManager) Snapshot(id uuid.UUID) (i.SessionView, error) {
	if id != s.knownID {
		return i.SessionView{}, i.ErrSessionNotFound
	}
	return i.SessionView{ID: id, Status: "in_progress"}, nil
}

func (s *stubSessionManager) GridSnapshot(id uuid.UUID) (i.GridView, error) {
	if id != s.knownID {
		return i.GridView{}, i.ErrSessionNotFound
	}
	return i.GridView{ID: id}, nil
}

func (s *stubSessionManager) Drop(id uuid.UUID) error {
	if id != s.knownID {
		return i.ErrSessionNotFound
	}
	return nil
}

func (s *stubSessionManager) TopRuns(_ context.Context, _ int64) ([]i.RunRecord, error) {
	if !s.archiveEnabled {
		return nil, i.ErrRunArchiveDisabled
	}
	return s.runs, nil
}

func setupRouter(t *testing.T, stub *stubSessionManager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	controller, err := NewController(stub, Defaults{
		Grid: search.GridConfig{
			Cols: 30, Rows: 15, CellSize: 40, Margin: 3, ObstacleDensity: 2.5,
		},
		Policy: search.OctileCost,
	})
	assert.NoError(t, err)

	router := gin.New()
	controller.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func request(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateSearch(t *testing.T) {
	stub := &stubSessionManager{knownID: uuid.New()}
	router := setupRouter(t, stub)

	t.Run("empty body falls back to defaults", func(t *testing.T) {
		res := request(router, http.MethodPost, "/api/v1/searches", "")
		assert.Equal(t, http.StatusCreated, res.Code)
		assert.Equal(t, 30, stub.lastGridConfig.Cols)
		assert.Equal(t, 15, stub.lastGridConfig.Rows)
		assert.Equal(t, search.OctileCost, stub.lastPolicy)
	})

	t.Run("overrides are applied", func(t *testing.T) {
		res := request(router, http.MethodPost, "/api/v1/searches",
			`{"cols": 5, "rows": 4, "costPolicy": "manhattan", "seed": 7}`)
		assert.Equal(t, http.StatusCreated, res.Code)
		assert.Equal(t, 5, stub.lastGridConfig.Cols)
		assert.Equal(t, 4, stub.lastGridConfig.Rows)
		assert.Equal(t, int64(7), stub.lastGridConfig.Seed)
		assert.Equal(t, 40, stub.lastGridConfig.CellSize)
		assert.Equal(t, search.ManhattanCost, stub.lastPolicy)
	})

	t.Run("unknown policy", func(t *testing.T) {
		res := request(router, http.MethodPost, "/api/v1/searches", `{"costPolicy": "euclidean"}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("invalid grid config", func(t *testing.T) {
		res := request(router, http.MethodPost, "/api/v1/searches", `{"cols": -1}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		res := request(router, http.MethodPost, "/api/v1/searches", `{"cols": "many"}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestSessionRoutes(t *testing.T) {
	stub := &stubSessionManager{knownID: uuid.New()}
	router := setupRouter(t, stub)
	known := stub.knownID.String()

	t.Run("state", func(t *testing.T) {
		res := request(router, http.MethodGet, "/api/v1/searches/"+known, "")
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), "in_progress")
	})

	t.Run("grid", func(t *testing.T) {
		res := request(router, http.MethodGet, "/api/v1/searches/"+known+"/grid", "")
		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("advance defaults to one step", func(t *testing.T) {
		res := request(router, http.MethodPost, "/api/v1/searches/"+known+"/advance", "")
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, 1, stub.lastSteps)
	})

	t.Run("advance with explicit steps", func(t *testing.T) {
		res := request(router, http.MethodPost, "/api/v1/searches/"+known+"/advance", `{"steps": 25}`)
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, 25, stub.lastSteps)
	})

	t.Run("advance with bad step count", func(t *testing.T) {
		res := request(router, http.MethodPost, "/api/v1/searches/"+known+"/advance", `{"steps": -2}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("drop", func(t *testing.T) {
		res := request(router, http.MethodDelete, "/api/v1/searches/"+known, "")
		assert.Equal(t, http.StatusNoContent, res.Code)
	})

	t.Run("unknown session id", func(t *testing.T) {
		res := request(router, http.MethodGet, "/api/v1/searches/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("malformed session id", func(t *testing.T) {
		res := request(router, http.MethodGet, "/api/v1/searches/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestTopRunsRoute(t *testing.T) {
	t.Run("archive disabled", func(t *testing.T) {
		router := setupRouter(t, &stubSessionManager{knownID: uuid.New()})
		res := request(router, http.MethodGet, "/api/v1/runs", "")
		assert.Equal(t, http.StatusServiceUnavailable, res.Code)
	})

	t.Run("archive enabled", func(t *testing.T) {
		stub := &stubSessionManager{
			knownID:        uuid.New(),
			archiveEnabled: true,
			runs:           []i.RunRecord{{ID: uuid.New(), Status: "found", Expanded: 12}},
		}
		router := setupRouter(t, stub)
		res := request(router, http.MethodGet, "/api/v1/runs", "")
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), "found")
	})
}
