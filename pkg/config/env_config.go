// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/opd-ai/go-hitbox/pkg/validation"
)

// EnvironmentConfig contains the deployment-facing knobs that can be set
// through HITBOX_* environment variables. It is the flat, validated view
// that LoadConfigFromEnv produces; HitboxConfig is the nested file form.
type EnvironmentConfig struct {
	CellSize           float64
	WorldBounded       bool
	WorldX             float64
	WorldY             float64
	WorldWidth         float64
	WorldHeight        float64
	QuadTreeMaxObjects int
	QuadTreeMaxDepth   int
	UseQuadTree        bool
	MaxShapes          int
	PublishMoveEvents  bool
	MoveEventInterval  time.Duration
	LogLevel           string
	// Resource Management Configuration
	MaxMemoryMB           int64
	MaxGoroutines         int
	ShutdownTimeout       time.Duration
	ResourceCheckInterval time.Duration
}

// ValidationError reports a configuration value outside its allowed range.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the validation error message
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Message)
}

// LoadConfigFromEnv builds an EnvironmentConfig from environment variables,
// falling back to defaults for anything unset, and validates the result.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	config := &EnvironmentConfig{
		CellSize:           getEnvAsFloatOrDefault("HITBOX_CELL_SIZE", 100),
		WorldBounded:       getEnvAsBoolOrDefault("HITBOX_WORLD_BOUNDED", true),
		WorldX:             getEnvAsFloatOrDefault("HITBOX_WORLD_X", -5000),
		WorldY:             getEnvAsFloatOrDefault("HITBOX_WORLD_Y", -5000),
		WorldWidth:         getEnvAsFloatOrDefault("HITBOX_WORLD_WIDTH", 10000),
		WorldHeight:        getEnvAsFloatOrDefault("HITBOX_WORLD_HEIGHT", 10000),
		QuadTreeMaxObjects: getEnvAsIntOrDefault("HITBOX_QUADTREE_MAX_OBJECTS", 10),
		QuadTreeMaxDepth:   getEnvAsIntOrDefault("HITBOX_QUADTREE_MAX_DEPTH", 5),
		UseQuadTree:        getEnvAsBoolOrDefault("HITBOX_USE_QUADTREE", false),
		MaxShapes:          getEnvAsIntOrDefault("HITBOX_MAX_SHAPES", 10000),
		PublishMoveEvents:  getEnvAsBoolOrDefault("HITBOX_PUBLISH_MOVE_EVENTS", true),
		MoveEventInterval:  getEnvAsDurationOrDefault("HITBOX_MOVE_EVENT_INTERVAL", 100*time.Millisecond),
		LogLevel:           getEnvOrDefault("HITBOX_LOG_LEVEL", "INFO"),
		// Resource Management Configuration
		MaxMemoryMB:           int64(getEnvAsIntOrDefault("HITBOX_MAX_MEMORY_MB", 500)),
		MaxGoroutines:         getEnvAsIntOrDefault("HITBOX_MAX_GOROUTINES", 100),
		ShutdownTimeout:       getEnvAsDurationOrDefault("HITBOX_SHUTDOWN_TIMEOUT", 30*time.Second),
		ResourceCheckInterval: getEnvAsDurationOrDefault("HITBOX_RESOURCE_CHECK_INTERVAL", 10*time.Second),
	}

	if err := validateEnvironmentConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validateEnvironmentConfig checks every field against its allowed range.
// Basic numeric sanity (finite, positive) goes through pkg/validation;
// deployment ranges are enforced here.
func validateEnvironmentConfig(config *EnvironmentConfig) error {
	if err := validation.ValidateCellSize(config.CellSize); err != nil {
		return &ValidationError{Field: "CellSize", Message: err.Error()}
	}
	if config.CellSize > 100000 {
		return &ValidationError{
			Field:   "CellSize",
			Message: fmt.Sprintf("must be at most 100000, got %f", config.CellSize),
		}
	}

	if config.WorldBounded {
		if err := validation.ValidateExtent(config.WorldWidth, config.WorldHeight); err != nil {
			return &ValidationError{Field: "WorldWidth", Message: err.Error()}
		}
		if config.WorldWidth <= 0 || config.WorldWidth > 1000000 {
			return &ValidationError{
				Field:   "WorldWidth",
				Message: fmt.Sprintf("must be in range (0, 1000000], got %f", config.WorldWidth),
			}
		}
		if config.WorldHeight <= 0 || config.WorldHeight > 1000000 {
			return &ValidationError{
				Field:   "WorldHeight",
				Message: fmt.Sprintf("must be in range (0, 1000000], got %f", config.WorldHeight),
			}
		}
	}

	if config.QuadTreeMaxObjects < 1 || config.QuadTreeMaxObjects > 1024 {
		return &ValidationError{
			Field:   "QuadTreeMaxObjects",
			Message: fmt.Sprintf("must be in range [1, 1024], got %d", config.QuadTreeMaxObjects),
		}
	}

	if config.QuadTreeMaxDepth < 1 || config.QuadTreeMaxDepth > 32 {
		return &ValidationError{
			Field:   "QuadTreeMaxDepth",
			Message: fmt.Sprintf("must be in range [1, 32], got %d", config.QuadTreeMaxDepth),
		}
	}

	if config.UseQuadTree && !config.WorldBounded {
		return &ValidationError{
			Field:   "UseQuadTree",
			Message: "quadtree mode requires a bounded world",
		}
	}

	if config.MaxShapes < 1 || config.MaxShapes > 1000000 {
		return &ValidationError{
			Field:   "MaxShapes",
			Message: fmt.Sprintf("must be in range [1, 1000000], got %d", config.MaxShapes),
		}
	}

	if config.MoveEventInterval < 0 || config.MoveEventInterval > time.Minute {
		return &ValidationError{
			Field:   "MoveEventInterval",
			Message: fmt.Sprintf("must be in range [0, 1m], got %v", config.MoveEventInterval),
		}
	}

	switch strings.ToUpper(config.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return &ValidationError{
			Field:   "LogLevel",
			Message: fmt.Sprintf("must be one of DEBUG, INFO, WARN, ERROR, got %q", config.LogLevel),
		}
	}

	if config.MaxMemoryMB < 1 || config.MaxMemoryMB > 16384 {
		return &ValidationError{
			Field:   "MaxMemoryMB",
			Message: fmt.Sprintf("must be in range [1, 16384], got %d", config.MaxMemoryMB),
		}
	}

	if config.MaxGoroutines < 1 || config.MaxGoroutines > 10000 {
		return &ValidationError{
			Field:   "MaxGoroutines",
			Message: fmt.Sprintf("must be in range [1, 10000], got %d", config.MaxGoroutines),
		}
	}

	if config.ShutdownTimeout < time.Second || config.ShutdownTimeout > 5*time.Minute {
		return &ValidationError{
			Field:   "ShutdownTimeout",
			Message: fmt.Sprintf("must be in range [1s, 5m], got %v", config.ShutdownTimeout),
		}
	}

	if config.ResourceCheckInterval < 100*time.Millisecond || config.ResourceCheckInterval > 5*time.Minute {
		return &ValidationError{
			Field:   "ResourceCheckInterval",
			Message: fmt.Sprintf("must be in range [100ms, 5m], got %v", config.ResourceCheckInterval),
		}
	}

	return nil
}

// ToHitboxConfig converts the flat environment view into the nested
// file-config form.
func (c *EnvironmentConfig) ToHitboxConfig() *HitboxConfig {
	return &HitboxConfig{
		World: WorldConfig{
			Bounded: c.WorldBounded,
			X:       c.WorldX,
			Y:       c.WorldY,
			Width:   c.WorldWidth,
			Height:  c.WorldHeight,
		},
		Grid: GridConfig{
			CellSize: c.CellSize,
		},
		QuadTree: QuadTreeConfig{
			MaxObjects: c.QuadTreeMaxObjects,
			MaxDepth:   c.QuadTreeMaxDepth,
			Enabled:    c.UseQuadTree,
		},
		Scene: SceneConfig{
			MaxShapes:           c.MaxShapes,
			PublishMoveEvents:   c.PublishMoveEvents,
			MoveEventIntervalMS: int(c.MoveEventInterval / time.Millisecond),
		},
		Logging: LoggingConfig{
			Level: c.LogLevel,
		},
	}
}

// ApplyEnvironmentOverrides overlays any set HITBOX_* variables onto an
// existing configuration and validates the merged result.
func ApplyEnvironmentOverrides(config *HitboxConfig) error {
	merged := &EnvironmentConfig{
		CellSize:           getEnvAsFloatOrDefault("HITBOX_CELL_SIZE", config.Grid.CellSize),
		WorldBounded:       getEnvAsBoolOrDefault("HITBOX_WORLD_BOUNDED", config.World.Bounded),
		WorldX:             getEnvAsFloatOrDefault("HITBOX_WORLD_X", config.World.X),
		WorldY:             getEnvAsFloatOrDefault("HITBOX_WORLD_Y", config.World.Y),
		WorldWidth:         getEnvAsFloatOrDefault("HITBOX_WORLD_WIDTH", config.World.Width),
		WorldHeight:        getEnvAsFloatOrDefault("HITBOX_WORLD_HEIGHT", config.World.Height),
		QuadTreeMaxObjects: getEnvAsIntOrDefault("HITBOX_QUADTREE_MAX_OBJECTS", config.QuadTree.MaxObjects),
		QuadTreeMaxDepth:   getEnvAsIntOrDefault("HITBOX_QUADTREE_MAX_DEPTH", config.QuadTree.MaxDepth),
		UseQuadTree:        getEnvAsBoolOrDefault("HITBOX_USE_QUADTREE", config.QuadTree.Enabled),
		MaxShapes:          getEnvAsIntOrDefault("HITBOX_MAX_SHAPES", config.Scene.MaxShapes),
		PublishMoveEvents:  getEnvAsBoolOrDefault("HITBOX_PUBLISH_MOVE_EVENTS", config.Scene.PublishMoveEvents),
		MoveEventInterval:  getEnvAsDurationOrDefault("HITBOX_MOVE_EVENT_INTERVAL", time.Duration(config.Scene.MoveEventIntervalMS)*time.Millisecond),
		LogLevel:           getEnvOrDefault("HITBOX_LOG_LEVEL", config.Logging.Level),
		// Resource limits live only in the environment; the file config
		// has no section for them.
		MaxMemoryMB:           int64(getEnvAsIntOrDefault("HITBOX_MAX_MEMORY_MB", 500)),
		MaxGoroutines:         getEnvAsIntOrDefault("HITBOX_MAX_GOROUTINES", 100),
		ShutdownTimeout:       getEnvAsDurationOrDefault("HITBOX_SHUTDOWN_TIMEOUT", 30*time.Second),
		ResourceCheckInterval: getEnvAsDurationOrDefault("HITBOX_RESOURCE_CHECK_INTERVAL", 10*time.Second),
	}

	if err := validateEnvironmentConfig(merged); err != nil {
		return err
	}

	*config = *merged.ToHitboxConfig()
	return nil
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable parsed as an int,
// or the default when unset or unparseable.
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the environment variable parsed as a bool,
// or the default when unset or unparseable.
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns the environment variable parsed as a
// float64, or the default when unset or unparseable.
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault returns the environment variable parsed as a
// time.Duration, or the default when unset or unparseable.
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
