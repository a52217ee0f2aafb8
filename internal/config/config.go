// Package config reads server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/tryon-mcp/internal/imaging"
	"github.com/ironsheep/tryon-mcp/internal/placement"
)

// Config holds server settings resolved from TRYON_* environment variables.
type Config struct {
	LogLevel    string        // debug, info, warn or error
	AssetDir    string        // base for relative asset paths
	WidthScale  float64       // overlay width / eye distance
	AspectRatio float64       // overlay height / width
	LoadTimeout time.Duration // per asset fetch
	WaitTimeout time.Duration // how long a tool call waits for a deferred draw
}

// Load reads the environment. Unset or invalid values fall back to the
// defaults: info logging, 1.8 width scale, 0.8 aspect ratio, 10s load
// timeout and 5s wait timeout.
func Load() *Config {
	return &Config{
		LogLevel:    strings.ToLower(getEnv("TRYON_MCP_LOG_LEVEL", "info")),
		AssetDir:    getEnv("TRYON_ASSET_DIR", ""),
		WidthScale:  getEnvPositiveFloat("TRYON_WIDTH_SCALE", placement.DefaultWidthScale),
		AspectRatio: getEnvPositiveFloat("TRYON_ASPECT_RATIO", placement.DefaultAspectRatio),
		LoadTimeout: getEnvDuration("TRYON_LOAD_TIMEOUT", imaging.DefaultLoadTimeout),
		WaitTimeout: getEnvDuration("TRYON_WAIT_TIMEOUT", 5*time.Second),
	}
}

// Geometry returns the placement factors configured for this process.
func (c *Config) Geometry() placement.Geometry {
	return placement.Geometry{
		WidthScale:  c.WidthScale,
		AspectRatio: c.AspectRatio,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvPositiveFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
