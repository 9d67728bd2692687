// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/opd-ai/go-hitbox/pkg/geometry"
)

// HitboxConfig contains configuration for a collision detection setup
type HitboxConfig struct {
	World    WorldConfig    `json:"world"`
	Grid     GridConfig     `json:"grid"`
	QuadTree QuadTreeConfig `json:"quadTree"`
	Scene    SceneConfig    `json:"scene"`
	Logging  LoggingConfig  `json:"logging"`
}

// WorldConfig describes the world extent. A bounded world enables the
// quadtree index; an unbounded world leaves only the grid available.
type WorldConfig struct {
	Bounded bool    `json:"bounded"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// GridConfig contains uniform grid configuration
type GridConfig struct {
	CellSize float64 `json:"cellSize"`
}

// QuadTreeConfig contains quadtree configuration
type QuadTreeConfig struct {
	MaxObjects int  `json:"maxObjects"`
	MaxDepth   int  `json:"maxDepth"`
	Enabled    bool `json:"enabled"`
}

// SceneConfig contains scene registry configuration
type SceneConfig struct {
	MaxShapes           int  `json:"maxShapes"`
	PublishMoveEvents   bool `json:"publishMoveEvents"`
	MoveEventIntervalMS int  `json:"moveEventIntervalMS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `json:"level"`
}

// WorldBounds returns the configured world extent as an AABB, or nil
// when the world is unbounded.
func (c *HitboxConfig) WorldBounds() *geometry.AABB {
	if !c.World.Bounded {
		return nil
	}
	bounds := geometry.NewAABB(c.World.X, c.World.Y, c.World.Width, c.World.Height)
	return &bounds
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*HitboxConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := ioutil.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config HitboxConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *HitboxConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := ioutil.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default hitbox configuration
func DefaultConfig() *HitboxConfig {
	return &HitboxConfig{
		World: WorldConfig{
			Bounded: true,
			X:       -5000,
			Y:       -5000,
			Width:   10000,
			Height:  10000,
		},
		Grid: GridConfig{
			CellSize: 100,
		},
		QuadTree: QuadTreeConfig{
			MaxObjects: 10,
			MaxDepth:   5,
			Enabled:    false,
		},
		Scene: SceneConfig{
			MaxShapes:           10000,
			PublishMoveEvents:   true,
			MoveEventIntervalMS: 100,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}
