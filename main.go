package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/beka-birhanu/pathfinder-api/api"
	api_i "github.com/beka-birhanu/pathfinder-api/api/i"
	"github.com/beka-birhanu/pathfinder-api/api/pathfinding"
	"github.com/beka-birhanu/pathfinder-api/config"
	"github.com/beka-birhanu/pathfinder-api/infrastruture/sortedstorage"
	"github.com/beka-birhanu/pathfinder-api/search"
	"github.com/beka-birhanu/pathfinder-api/service"
	"github.com/beka-birhanu/pathfinder-api/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Global variables for dependencies
var (
	redisClient           *redis.Client
	runArchive            i.SortedQueue
	sessionManager        i.SearchSessionManager
	pathfindingController api_i.Controller
	router                *api.Router
	appLogger             *log.Logger
)

func initLogger() {
	appLogger = log.New(os.Stdout, fmt.Sprintf("%s[APP]%s ", config.ColorGreen, config.ColorReset), log.LstdFlags)
}

func initRunArchive(ctx context.Context) {
	if config.Envs.RedisHost == "" {
		appLogger.Printf("%s[INFO]%s REDIS_HOST not set, run archive disabled", config.LogInfoColor, config.LogColorReset)
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", config.Envs.RedisHost, config.Envs.RedisPort),
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Printf("%s[WARN]%s redis unreachable, run archive disabled: %v", config.LogWarnColor, config.LogColorReset, err)
		_ = redisClient.Close()
		redisClient = nil
		return
	}

	var err error
	runArchive, err = sortedstorage.NewRedisSortedQueue(redisClient, config.Envs.RunArchiveTTL, config.Envs.RunArchiveCap)
	if err != nil {
		appLogger.Printf("%s[ERROR]%s creating run archive: %v", config.LogErrorColor, config.LogColorReset, err)
		os.Exit(1)
	}
	appLogger.Printf("%s[INFO]%s run archive initialized", config.LogInfoColor, config.LogColorReset)
}

func initSessionManager() {
	var err error
	sessionManager, err = service.NewSearchSessionManager(&service.Config{
		RunArchive: runArchive,
		Logger:     log.New(os.Stdout, fmt.Sprintf("%s[SEARCH]%s ", config.ColorCyan, config.ColorReset), log.LstdFlags),
	})
	if err != nil {
		appLogger.Printf("%s[ERROR]%s creating session manager: %v", config.LogErrorColor, config.LogColorReset, err)
		os.Exit(1)
	}
	appLogger.Printf("%s[INFO]%s session manager initialized", config.LogInfoColor, config.LogColorReset)
}

func initPathfindingController() {
	policy, err := search.ParseCostPolicy(config.Envs.CostPolicy)
	if err != nil {
		appLogger.Printf("%s[ERROR]%s invalid COST_POLICY: %v", config.LogErrorColor, config.LogColorReset, err)
		os.Exit(1)
	}

	pathfindingController, err = pathfinding.NewController(sessionManager, pathfinding.Defaults{
		Grid: search.GridConfig{
			Cols:            config.Envs.GridCols,
			Rows:            config.Envs.GridRows,
			CellSize:        config.Envs.CellSize,
			Margin:          config.Envs.CellMargin,
			ObstacleDensity: config.Envs.ObstacleDensity,
		},
		Policy: policy,
	})
	if err != nil {
		appLogger.Printf("%s[ERROR]%s creating pathfinding controller: %v", config.LogErrorColor, config.LogColorReset, err)
		os.Exit(1)
	}
	appLogger.Printf("%s[INFO]%s pathfinding controller initialized", config.LogInfoColor, config.LogColorReset)
}

func initRouter() {
	router = api.NewRouter(api.Config{
		Addr:        fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:     "/api",
		Controllers: []api_i.Controller{pathfindingController},
	})
	appLogger.Printf("%s[INFO]%s router initialized", config.LogInfoColor, config.LogColorReset)
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gin.SetMode(config.Envs.GinMode)

	initLogger()
	initRunArchive(ctx)
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	initSessionManager()
	initPathfindingController()
	initRouter()

	if err := router.Run(); err != nil {
		appLogger.Printf("%s[ERROR]%s starting server: %v", config.LogErrorColor, config.LogColorReset, err)
		os.Exit(1)
	}
}
