// Package pathfinding exposes search sessions over HTTP so visualization
// clients can create a search, step it once per frame, and read the
// frontier, visited set and path for drawing.
package pathfinding

import (
	"errors"
	"net/http"

	"github.com/beka-birhanu/pathfinder-api/search"
	"github.com/beka-birhanu/pathfinder-api/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultTopRunsLimit = 20

// Defaults carries the construction-time fallbacks applied to create
// requests that omit grid parameters.
type Defaults struct {
	Grid   search.GridConfig
	Policy search.CostPolicy
}

// Controller manages search session operations.
type Controller struct {
	sessionManager i.SearchSessionManager
	defaults       Defaults
}

// NewController initializes a pathfinding Controller.
func NewController(sm i.SearchSessionManager, defaults Defaults) (*Controller, error) {
	if sm == nil {
		return nil, errors.New("nil session manager")
	}
	return &Controller{
		sessionManager: sm,
		defaults:       defaults,
	}, nil
}

// RegisterRoutes registers the search session routes.
func (c *Controller) RegisterRoutes(route *gin.RouterGroup) {
	searches := route.Group("/searches")
	{
		searches.POST("", c.createSearch)
		searches.GET("/:id", c.searchState)
		searches.GET("/:id/grid", c.searchGrid)
		searches.POST("/:id/advance", c.advanceSearch)
		searches.DELETE("/:id", c.dropSearch)
	}
	route.GET("/runs", c.topRuns)
}

type createSearchRequest struct {
	Cols            *int     `json:"cols"`
	Rows            *int     `json:"rows"`
	CellSize        *int     `json:"cellSize"`
	Margin          *int     `json:"margin"`
	ObstacleDensity *float64 `json:"obstacleDensity"`
	CostPolicy      string   `json:"costPolicy"`
	Seed            int64    `json:"seed"`
}

type advanceSearchRequest struct {
	Steps int `json:"steps"`
}

// createSearch starts a new search session. Omitted grid parameters fall
// back to the server defaults; a zero seed gives a fresh random layout.
func (c *Controller) createSearch(ctx *gin.Context) {
	var request createSearchRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	cfg := c.defaults.Grid
	if request.Cols != nil {
		cfg.Cols = *request.Cols
	}
	if request.Rows != nil {
		cfg.Rows = *request.Rows
	}
	if request.CellSize != nil {
		cfg.CellSize = *request.CellSize
	}
	if request.Margin != nil {
		cfg.Margin = *request.Margin
	}
	if request.ObstacleDensity != nil {
		cfg.ObstacleDensity = *request.ObstacleDensity
	}
	cfg.Seed = request.Seed

	policy := c.defaults.Policy
	if request.CostPolicy != "" {
		parsed, err := search.ParseCostPolicy(request.CostPolicy)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		policy = parsed
	}

	grid, err := c.sessionManager.NewSession(cfg, policy)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, grid)
}

// searchState returns the frontier, visited set, path and status of a session.
func (c *Controller) searchState(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	view, err := c.sessionManager.Snapshot(id)
	if err != nil {
		c.writeLookupError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// searchGrid returns the full cell layout of a session's grid.
func (c *Controller) searchGrid(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	view, err := c.sessionManager.GridSnapshot(id)
	if err != nil {
		c.writeLookupError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// advanceSearch steps a session's engine, one expansion per step.
func (c *Controller) advanceSearch(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	request := advanceSearchRequest{Steps: 1}
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	view, err := c.sessionManager.Advance(id, request.Steps)
	if err != nil {
		if errors.Is(err, i.ErrInvalidStepCount) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.writeLookupError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// dropSearch removes a session.
func (c *Controller) dropSearch(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	if err := c.sessionManager.Drop(id); err != nil {
		c.writeLookupError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// topRuns lists archived finished runs, fewest expansions first.
func (c *Controller) topRuns(ctx *gin.Context) {
	records, err := c.sessionManager.TopRuns(ctx.Request.Context(), defaultTopRunsLimit)
	if err != nil {
		if errors.Is(err, i.ErrRunArchiveDisabled) {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"runs": records})
}

func (c *Controller) sessionID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}

func (c *Controller) writeLookupError(ctx *gin.Context, err error) {
	if errors.Is(err, i.ErrSessionNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
