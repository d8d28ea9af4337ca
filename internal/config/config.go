package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"

	"chunkmesh/internal/atlas"
	"chunkmesh/internal/world"

	"gopkg.in/yaml.v3"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Chunk     ChunkConfig     `yaml:"chunk"`
	Atlas     AtlasConfig     `yaml:"atlas"`
	Meshing   MeshingConfig   `yaml:"meshing"`
	Generator GeneratorConfig `yaml:"generator"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Output    OutputConfig    `yaml:"output"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
	Viewer    ViewerConfig    `yaml:"viewer"`
}

type ChunkConfig struct {
	Size     int     `yaml:"size"`
	CellSize float32 `yaml:"cell_size"`
}

type AtlasConfig struct {
	RowCapacity int    `yaml:"row_capacity"`
	CellPixels  int    `yaml:"cell_pixels"`
	Image       string `yaml:"image"`
}

type MeshingConfig struct {
	Workers int    `yaml:"workers"`
	Winding string `yaml:"winding"`
}

type GeneratorConfig struct {
	Kind    string `yaml:"kind"`
	Seed    int64  `yaml:"seed"`
	Level   int    `yaml:"level"`
	Surface string `yaml:"surface"`
	Filler  string `yaml:"filler"`
	Bedrock string `yaml:"bedrock"`
}

type CatalogConfig struct {
	// Path is a directory holding catalog.yaml and blocks/. Empty uses the
	// built-in catalog.
	Path string `yaml:"path"`
}

type OutputConfig struct {
	Path     string `yaml:"path"`
	Compress bool   `yaml:"compress"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ViewerConfig struct {
	// Radius is the number of chunks shown around the origin column.
	Radius   int `yaml:"radius"`
	FPSLimit int `yaml:"fps_limit"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Chunk: ChunkConfig{Size: world.ChunkSize, CellSize: 1},
		Atlas: AtlasConfig{
			RowCapacity: atlas.DefaultRowCapacity,
			CellPixels:  atlas.DefaultCellPixels,
		},
		Meshing: MeshingConfig{Workers: 1, Winding: "ccw"},
		Generator: GeneratorConfig{
			Kind:    "flat",
			Level:   16,
			Surface: "grass",
			Filler:  "dirt",
			Bedrock: "bedrock",
		},
		Log:    LogConfig{Level: "info"},
		Viewer: ViewerConfig{Radius: 1, FPSLimit: 120},
	}
}

// Load reads a YAML config file over the defaults.
// If path == "", CHUNKMESH_CONFIG is tried; with neither set the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("CHUNKMESH_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets CHUNKMESH_WORKERS override the worker count.
func (c *Config) applyEnv() {
	if v := os.Getenv("CHUNKMESH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Meshing.Workers = n
		}
	}
}

// Validate checks values the mesher cannot work around.
func (c *Config) Validate() error {
	if c.Chunk.Size != world.ChunkSize {
		return fmt.Errorf("%w: chunk.size %d, want %d", world.ErrDimensionMismatch, c.Chunk.Size, world.ChunkSize)
	}
	if c.Chunk.CellSize <= 0 {
		return fmt.Errorf("chunk.cell_size must be positive, got %v", c.Chunk.CellSize)
	}
	if err := c.Layout().Validate(); err != nil {
		return err
	}
	return nil
}

// Layout returns the atlas layout named by the atlas section.
func (c *Config) Layout() atlas.Layout {
	return atlas.Layout{RowCapacity: c.Atlas.RowCapacity, CellPixels: c.Atlas.CellPixels}
}

// MeshSettings holds runtime-adjustable meshing configuration
type MeshSettings struct {
	mu      sync.RWMutex
	workers int
}

var globalMeshSettings = &MeshSettings{
	workers: 1,
}

// MaxWorkers is the upper clamp for the rebuild worker count.
const MaxWorkers = world.ChunkSize

// GetWorkers returns the current number of rebuild workers
func GetWorkers() int {
	globalMeshSettings.mu.RLock()
	defer globalMeshSettings.mu.RUnlock()
	return globalMeshSettings.workers
}

// SetWorkers sets the number of rebuild workers. Zero or less means GOMAXPROCS.
func SetWorkers(n int) {
	globalMeshSettings.mu.Lock()
	defer globalMeshSettings.mu.Unlock()

	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	// Clamp to reasonable values
	if n > MaxWorkers {
		n = MaxWorkers
	}

	globalMeshSettings.workers = n
}
