// Package export writes chunk meshes to Wavefront OBJ files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"chunkmesh/internal/meshing"

	"github.com/klauspost/compress/zstd"
)

// ZstdExt is the file suffix that selects compressed output in WriteFile.
const ZstdExt = ".zst"

// WriteOBJ writes m as a single OBJ object. Every vertex carries its own
// texture coordinate and normal, so v, vt and vn share one index per corner.
func WriteOBJ(w io.Writer, name string, m *meshing.ChunkMesh) error {
	if err := m.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %d vertices, %d triangles\n", len(m.Vertices), len(m.Indices)/3)
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.X(), v.Y(), v.Z())
	}
	for _, uv := range m.UVs {
		fmt.Fprintf(bw, "vt %g %g\n", uv.X(), uv.Y())
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X(), n.Y(), n.Z())
	}
	// OBJ indices are 1-based
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}
	return bw.Flush()
}

// WriteFile writes m to path, zstd-compressing when compress is set or the
// path ends in ZstdExt.
func WriteFile(path, name string, m *meshing.ChunkMesh, compress bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !compress && !strings.HasSuffix(path, ZstdExt) {
		return WriteOBJ(f, name, m)
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := WriteOBJ(enc, name, m); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// OpenFile returns a reader over an OBJ file written by WriteFile,
// decompressing zstd content when the path ends in ZstdExt.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ZstdExt) {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	return &zstdFile{Decoder: dec, f: f}, nil
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}
