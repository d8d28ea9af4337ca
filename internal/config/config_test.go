package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"chunkmesh/internal/atlas"
	"chunkmesh/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunkmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHUNKMESH_CONFIG", "")
	t.Setenv("CHUNKMESH_WORKERS", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, world.ChunkSize, cfg.Chunk.Size)
	assert.Equal(t, float32(1), cfg.Chunk.CellSize)
	assert.Equal(t, atlas.DefaultLayout(), cfg.Layout())
	assert.Equal(t, "ccw", cfg.Meshing.Winding)
	assert.Equal(t, "flat", cfg.Generator.Kind)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	t.Setenv("CHUNKMESH_WORKERS", "")
	path := writeConfig(t, `
chunk:
  cell_size: 0.5
atlas:
  row_capacity: 8
meshing:
  workers: 4
  winding: cw
generator:
  kind: simplex
  seed: 99
output:
  path: out.obj.zst
  compress: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, world.ChunkSize, cfg.Chunk.Size, "unset keys keep defaults")
	assert.Equal(t, float32(0.5), cfg.Chunk.CellSize)
	assert.Equal(t, 8, cfg.Atlas.RowCapacity)
	assert.Equal(t, atlas.DefaultCellPixels, cfg.Atlas.CellPixels)
	assert.Equal(t, 4, cfg.Meshing.Workers)
	assert.Equal(t, "cw", cfg.Meshing.Winding)
	assert.Equal(t, "simplex", cfg.Generator.Kind)
	assert.Equal(t, int64(99), cfg.Generator.Seed)
	assert.True(t, cfg.Output.Compress)
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "meshing:\n  workers: 2\n")
	t.Setenv("CHUNKMESH_CONFIG", path)
	t.Setenv("CHUNKMESH_WORKERS", "6")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Meshing.Workers)
}

func TestLoadRejectsOtherChunkSize(t *testing.T) {
	t.Setenv("CHUNKMESH_WORKERS", "")
	path := writeConfig(t, "chunk:\n  size: 16\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, world.ErrDimensionMismatch)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CHUNKMESH_WORKERS", "")

	_, err := Load(writeConfig(t, "chunk:\n  cell_size: -1\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "atlas:\n  row_capacity: 0\n"))
	assert.ErrorIs(t, err, atlas.ErrInvalidLayout)

	_, err = Load(writeConfig(t, "chunk: [1, 2\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSetWorkersClamps(t *testing.T) {
	defer SetWorkers(1)

	SetWorkers(4)
	assert.Equal(t, 4, GetWorkers())

	SetWorkers(1000)
	assert.Equal(t, MaxWorkers, GetWorkers())

	SetWorkers(0)
	want := runtime.GOMAXPROCS(0)
	if want > MaxWorkers {
		want = MaxWorkers
	}
	assert.Equal(t, want, GetWorkers())
}
