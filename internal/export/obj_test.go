package export

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chunkmesh/internal/meshing"
	"chunkmesh/internal/registry"
	"chunkmesh/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleBlockMesh(t *testing.T) *meshing.ChunkMesh {
	t.Helper()
	blocks := registry.Default()
	grid := world.NewGrid()
	grid.Set(4, 5, 6, blocks.MustLookup("stone"))
	mesh, err := meshing.Rebuild(grid, blocks)
	require.NoError(t, err)
	return mesh
}

func countPrefixes(t *testing.T, r io.Reader) map[string]int {
	t.Helper()
	counts := map[string]int{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) > 0 {
			counts[fields[0]]++
		}
	}
	require.NoError(t, sc.Err())
	return counts
}

func TestWriteOBJ(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, "chunk_0_0_0", singleBlockMesh(t)))

	counts := countPrefixes(t, bytes.NewReader(buf.Bytes()))
	assert.Equal(t, 1, counts["o"])
	assert.Equal(t, 24, counts["v"])
	assert.Equal(t, 24, counts["vt"])
	assert.Equal(t, 24, counts["vn"])
	assert.Equal(t, 12, counts["f"])

	assert.Contains(t, buf.String(), "f 1/1/1 ")
	assert.NotContains(t, buf.String(), "/0/")
}

func TestWriteOBJEmptyMesh(t *testing.T) {
	mesh, err := meshing.Rebuild(world.NewGrid(), registry.Default())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, "", mesh))
	counts := countPrefixes(t, bytes.NewReader(buf.Bytes()))
	assert.Zero(t, counts["v"])
	assert.Zero(t, counts["f"])
}

func TestWriteOBJRejectsMalformedMesh(t *testing.T) {
	mesh := singleBlockMesh(t)
	mesh.Indices = mesh.Indices[:5]

	err := WriteOBJ(io.Discard, "", mesh)
	assert.ErrorIs(t, err, meshing.ErrMalformedMesh)
}

func TestWriteFileCompressed(t *testing.T) {
	mesh := singleBlockMesh(t)
	dir := t.TempDir()

	var plain bytes.Buffer
	require.NoError(t, WriteOBJ(&plain, "chunk", mesh))

	path := filepath.Join(dir, "chunk.obj"+ZstdExt)
	require.NoError(t, WriteFile(path, "chunk", mesh, false))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, plain.Bytes(), raw, "file should be compressed")

	r, err := OpenFile(path)
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, plain.Bytes(), got)
}

func TestWriteFilePlain(t *testing.T) {
	mesh := singleBlockMesh(t)
	path := filepath.Join(t.TempDir(), "chunk.obj")
	require.NoError(t, WriteFile(path, "chunk", mesh, false))

	r, err := OpenFile(path)
	require.NoError(t, err)
	defer r.Close()
	counts := countPrefixes(t, r)
	assert.Equal(t, 12, counts["f"])
}
