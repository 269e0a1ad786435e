package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values. Everything has a
// default, so the binary runs with an empty environment; the grid defaults
// mirror the classic 30x15 demo layout.
type Config struct {
	HostIP   string // Host IP for the server
	RESTPort int    // Port for the REST API
	GinMode  string // Mode for the Gin framework (e.g., release, debug, test)

	GridCols        int     // Default number of grid columns
	GridRows        int     // Default number of grid rows
	CellSize        int     // Default cell side length on the canvas
	CellMargin      int     // Default gap between cells on the canvas
	ObstacleDensity float64 // Default obstacle density divisor
	CostPolicy      string  // Default distance policy: manhattan or octile

	RedisHost     string // Redis host for the run archive; empty disables it
	RedisPort     int    // Redis port for the run archive
	RunArchiveTTL int    // Seconds before an idle run archive expires
	RunArchiveCap int64  // Maximum archived runs kept; 0 keeps all
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file when one is present.
func initConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:   getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort: getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:  getEnvWithDefault("GIN_MODE", "release"),

		GridCols:        getEnvAsIntWithDefault("GRID_COLS", 30),
		GridRows:        getEnvAsIntWithDefault("GRID_ROWS", 15),
		CellSize:        getEnvAsIntWithDefault("CELL_SIZE", 40),
		CellMargin:      getEnvAsIntWithDefault("CELL_MARGIN", 3),
		ObstacleDensity: getEnvAsFloatWithDefault("OBSTACLE_DENSITY", 2.5),
		CostPolicy:      getEnvWithDefault("COST_POLICY", "octile"),

		RedisHost:     getEnvWithDefault("REDIS_HOST", ""),
		RedisPort:     getEnvAsIntWithDefault("REDIS_PORT", 6379),
		RunArchiveTTL: getEnvAsIntWithDefault("RUN_ARCHIVE_TTL", 3600),
		RunArchiveCap: int64(getEnvAsIntWithDefault("RUN_ARCHIVE_CAP", 100)),
	}
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault retrieves an environment variable as an integer,
// falling back to the default when unset or unparsable.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[APP] [WARN] Environment variable %s is not an integer, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsFloatWithDefault retrieves an environment variable as a float,
// falling back to the default when unset or unparsable.
func getEnvAsFloatWithDefault(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("[APP] [WARN] Environment variable %s is not a number, using default %v", key, defaultValue)
		return defaultValue
	}
	return value
}
