// pkg/config/presets.go
package config

import (
	"fmt"
)

// ScenePreset bundles a named index configuration with a seeding hint for
// demo and benchmark scenes.
type ScenePreset struct {
	Name        string
	Description string
	World       WorldConfig
	Grid        GridConfig
	QuadTree    QuadTreeConfig
	ShapeCount  int
}

// scenePresets holds the built-in presets, keyed by their lookup name.
var scenePresets = map[string]*ScenePreset{
	"sparse_world": {
		Name:        "Sparse World",
		Description: "Large world with few shapes, grid index with coarse cells",
		World: WorldConfig{
			Bounded: true,
			X:       -10000,
			Y:       -10000,
			Width:   20000,
			Height:  20000,
		},
		Grid: GridConfig{
			CellSize: 500,
		},
		QuadTree: QuadTreeConfig{
			MaxObjects: 10,
			MaxDepth:   5,
			Enabled:    false,
		},
		ShapeCount: 50,
	},
	"dense_field": {
		Name:        "Dense Field",
		Description: "Compact world packed with shapes, quadtree index",
		World: WorldConfig{
			Bounded: true,
			X:       -1000,
			Y:       -1000,
			Width:   2000,
			Height:  2000,
		},
		Grid: GridConfig{
			CellSize: 50,
		},
		QuadTree: QuadTreeConfig{
			MaxObjects: 8,
			MaxDepth:   6,
			Enabled:    true,
		},
		ShapeCount: 500,
	},
	"stress_test": {
		Name:        "Stress Test",
		Description: "Thousands of shapes for query benchmarking",
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
			MaxObjects: 16,
			MaxDepth:   8,
			Enabled:    true,
		},
		ShapeCount: 5000,
	},
}

// GetScenePreset returns the named preset, or nil when unknown.
func GetScenePreset(name string) *ScenePreset {
	return scenePresets[name]
}

// ListScenePresets returns all built-in presets keyed by lookup name.
func ListScenePresets() map[string]*ScenePreset {
	result := make(map[string]*ScenePreset, len(scenePresets))
	for name, preset := range scenePresets {
		result[name] = preset
	}
	return result
}

// ApplyScenePreset overwrites the index sections of a configuration with
// the named preset. Scene and logging sections are left untouched.
func ApplyScenePreset(config *HitboxConfig, name string) error {
	preset := GetScenePreset(name)
	if preset == nil {
		return fmt.Errorf("unknown scene preset: %q", name)
	}

	config.World = preset.World
	config.Grid = preset.Grid
	config.QuadTree = preset.QuadTree
	return nil
}

// LoadConfigWithPreset loads a configuration file and applies the named
// preset on top. A missing file falls back to DefaultConfig; an empty
// preset name skips preset application.
func LoadConfigWithPreset(path, presetName string) (*HitboxConfig, error) {
	config, err := LoadConfig(path)
	if err != nil {
		config = DefaultConfig()
	}

	if presetName != "" {
		if err := ApplyScenePreset(config, presetName); err != nil {
			return nil, err
		}
	}

	return config, nil
}
