package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every knob the derivative pipeline reads. Flag values take
// precedence over environment variables, which take precedence over defaults.
type Config struct {
	// InputDir is the directory holding the source photographs.
	InputDir string
	// OutputDir is the root the derivative tree is written under.
	OutputDir string

	// MaxWidth bounds the longer edge of the main display derivative.
	MaxWidth int
	// ThumbWidth bounds the longer edge of the thumbnail derivative.
	ThumbWidth int
	// JPEGQuality is the encode quality for main and thumbnail derivatives.
	JPEGQuality int

	// TileSize is the edge length of deep-zoom tiles.
	TileSize int
	// TileFormat is the tile image format passed to the tiling tool.
	TileFormat string
	// TilerBinary is the external deep-zoom tool executable.
	TilerBinary string
	// TileTimeout bounds a single tiling invocation so a hung tool
	// cannot stall the batch.
	TileTimeout time.Duration
	// Concurrency is the number of tiling invocations run at once.
	Concurrency int

	// MaxCatalogID rejects ids above this bound when > 0. Zero means
	// any id observed in the input is accepted.
	MaxCatalogID int
}

// Default returns the pipeline configuration with environment overrides
// applied. Call after godotenv has loaded any .env file.
func Default() Config {
	return Config{
		MaxWidth:     envInt("DERIVATIVES_MAX_WIDTH", 2000),
		ThumbWidth:   envInt("DERIVATIVES_THUMB_WIDTH", 500),
		JPEGQuality:  envInt("DERIVATIVES_JPEG_QUALITY", 85),
		TileSize:     envInt("DERIVATIVES_TILE_SIZE", 256),
		TileFormat:   envString("DERIVATIVES_TILE_FORMAT", "jpg"),
		TilerBinary:  envString("DERIVATIVES_TILER", "vips"),
		TileTimeout:  envDuration("DERIVATIVES_TILE_TIMEOUT", 10*time.Minute),
		Concurrency:  envInt("DERIVATIVES_CONCURRENCY", 4),
		MaxCatalogID: envInt("DERIVATIVES_MAX_ID", 0),
	}
}

func envString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
