package graphics

import (
	"chunkmesh/internal/meshing"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const floatSize = 4

// GPUMesh is a chunk mesh resident in GPU buffers.
type GPUMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// UploadMesh creates vertex and index buffers for m. Must be called on the
// thread that owns the GL context.
func UploadMesh(m *meshing.ChunkMesh) *GPUMesh {
	g := &GPUMesh{}
	gl.GenVertexArrays(1, &g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.GenBuffers(1, &g.ebo)

	gl.BindVertexArray(g.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)

	stride := int32(meshing.VertexStride * floatSize)
	// position
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	// normal
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*floatSize))
	gl.EnableVertexAttribArray(1)
	// uv
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*floatSize))
	gl.EnableVertexAttribArray(2)

	g.Update(m)
	gl.BindVertexArray(0)
	return g
}

// Update replaces the buffer contents with m.
func (g *GPUMesh) Update(m *meshing.ChunkMesh) {
	g.indexCount = int32(len(m.Indices))
	gl.BindVertexArray(g.vao)
	if m.IsEmpty() {
		gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}

	verts := m.Interleaved()
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*floatSize, gl.Ptr(verts), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*floatSize, gl.Ptr(m.Indices), gl.STATIC_DRAW)
}

// Draw issues one indexed draw call for the mesh.
func (g *GPUMesh) Draw() {
	if g.indexCount == 0 {
		return
	}
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
}

// Delete frees the GPU buffers.
func (g *GPUMesh) Delete() {
	gl.DeleteBuffers(1, &g.ebo)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteVertexArrays(1, &g.vao)
	g.indexCount = 0
}
