// Package config loads and validates the voxelcore world configuration:
// chunk dimensions, noise frequencies, lode and tree tables, and the
// streaming manager's tick budget. A Config is immutable once returned
// from Load — callers inject it into the services that need it rather
// than reaching for a mutable global.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Lode describes one noise-gated ore deposit in the ore lode pass.
type Lode struct {
	ID        string  `yaml:"id"`
	Freq      float64 `yaml:"freq"`
	Threshold float64 `yaml:"threshold"`
	Offset    float64 `yaml:"offset"`
	MinY      int     `yaml:"min_y"`
	MaxY      int     `yaml:"max_y"`
}

// Config is the exhaustive set of tunables for the core, see SPEC_FULL.md §6.
type Config struct {
	ChunkWidth     int `yaml:"chunk_width"`
	ChunkHeight    int `yaml:"chunk_height"`
	WorldWidth     int `yaml:"world_width"` // 0 means infinite
	RenderDistance int `yaml:"render_distance"`
	Seed           int64 `yaml:"seed"`

	BiomeFreq   float64 `yaml:"biome_freq"`
	TerrainBase float64 `yaml:"terrain_base"`
	TerrainAmp  float64 `yaml:"terrain_amp"`

	CaveLargeFreq  float64 `yaml:"cave_large_freq"`
	CaveMediumFreq float64 `yaml:"cave_medium_freq"`
	CaveSmallFreq  float64 `yaml:"cave_small_freq"`
	CaveThreshold  float64 `yaml:"cave_threshold"`

	WaterLevel int `yaml:"water_level"`
	SandLevel  int `yaml:"sand_level"`

	Lodes []Lode `yaml:"lodes"`

	TreeZoneFreq      float64 `yaml:"tree_zone_freq"`
	TreeZoneThreshold float64 `yaml:"tree_zone_threshold"`
	TreeZoneOffset    float64 `yaml:"tree_zone_offset"`

	TreePlacementFreq      float64 `yaml:"tree_placement_freq"`
	TreePlacementThreshold float64 `yaml:"tree_placement_threshold"`
	TreePlacementOffset    float64 `yaml:"tree_placement_offset"`

	TreeMinHeight int `yaml:"tree_min_height"`
	TreeMaxHeight int `yaml:"tree_max_height"`

	MeshBudgetPerTick int `yaml:"mesh_budget_per_tick"`
}

// ErrConfigInvalid is the sentinel wrapped by Validate failures. Detected
// at init time, it is fatal: the process must not start with inconsistent
// world parameters.
var ErrConfigInvalid = errors.New("config invalid")

// Default returns the configuration used by the demo entrypoint and by
// tests that don't care about tuning specifics.
func Default() Config {
	return Config{
		ChunkWidth:     16,
		ChunkHeight:    128,
		WorldWidth:     0,
		RenderDistance: 8,
		Seed:           1234,

		BiomeFreq:   0.02,
		TerrainBase: 32,
		TerrainAmp:  52,

		CaveLargeFreq:  0.02,
		CaveMediumFreq: 0.05,
		CaveSmallFreq:  0.1,
		CaveThreshold:  0.6,

		WaterLevel: 30,
		SandLevel:  32,

		Lodes: []Lode{
			{ID: "coal_ore", Freq: 0.08, Threshold: 0.62, Offset: 0, MinY: 5, MaxY: 64},
			{ID: "iron_ore", Freq: 0.07, Threshold: 0.68, Offset: 1000, MinY: 5, MaxY: 48},
			{ID: "gold_ore", Freq: 0.06, Threshold: 0.74, Offset: 2000, MinY: 5, MaxY: 32},
			{ID: "diamond_ore", Freq: 0.05, Threshold: 0.80, Offset: 3000, MinY: 5, MaxY: 16},
		},

		TreeZoneFreq:      0.01,
		TreeZoneThreshold: 0.55,
		TreeZoneOffset:    500,

		TreePlacementFreq:      0.3,
		TreePlacementThreshold: 0.7,
		TreePlacementOffset:    750,

		TreeMinHeight: 4,
		TreeMaxHeight: 7,

		MeshBudgetPerTick: 2,
	}
}

// Load reads a YAML document from path, starting from Default() so a
// partial document only overrides the keys it mentions, then validates it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	return LoadBytes(data)
}

// LoadBytes parses a YAML document already in memory.
func LoadBytes(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config for internally inconsistent parameters, per
// the ConfigInvalid error kind: fatal, detected at init, never recoverable.
func (c Config) Validate() error {
	if c.ChunkWidth <= 0 || c.ChunkHeight <= 0 {
		return errors.Wrap(ErrConfigInvalid, "chunk_width and chunk_height must be positive")
	}
	if c.TerrainBase+c.TerrainAmp > float64(c.ChunkHeight) {
		return errors.Wrapf(ErrConfigInvalid, "terrain_base(%v)+terrain_amp(%v) exceeds chunk_height(%d)", c.TerrainBase, c.TerrainAmp, c.ChunkHeight)
	}
	for _, l := range c.Lodes {
		if l.MinY > l.MaxY {
			return errors.Wrapf(ErrConfigInvalid, "lode %s: min_y(%d) > max_y(%d)", l.ID, l.MinY, l.MaxY)
		}
		if l.MaxY >= c.ChunkHeight {
			return errors.Wrapf(ErrConfigInvalid, "lode %s: max_y(%d) >= chunk_height(%d)", l.ID, l.MaxY, c.ChunkHeight)
		}
	}
	if c.RenderDistance <= 0 {
		return errors.Wrap(ErrConfigInvalid, "render_distance must be positive")
	}
	if c.MeshBudgetPerTick <= 0 {
		return errors.Wrap(ErrConfigInvalid, "mesh_budget_per_tick must be positive")
	}
	return nil
}
