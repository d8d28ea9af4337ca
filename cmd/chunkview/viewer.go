package main

import (
	"fmt"

	"chunkmesh/internal/export"
	"chunkmesh/internal/game"
	"chunkmesh/internal/graphics"
	"chunkmesh/internal/input"
	"chunkmesh/internal/logging"
	"chunkmesh/internal/physics"
	"chunkmesh/internal/registry"
	"chunkmesh/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	orbitSpeed  = 90 // degrees per second for keyboard orbit
	dragDegrees = 0.3
)

type viewer struct {
	window  *glfw.Window
	session *game.Session
	chunks  *graphics.ChunkRenderer
	cam     *graphics.Camera
	input   *input.InputManager

	place     world.BlockID
	wireframe bool
	exports   int

	lastX, lastY float64
}

func newViewer(window *glfw.Window, s *game.Session, chunks *graphics.ChunkRenderer, cam *graphics.Camera) *viewer {
	v := &viewer{
		window:  window,
		session: s,
		chunks:  chunks,
		cam:     cam,
		input:   input.NewInputManager(),
		place:   1,
	}
	if id, ok := s.Blocks.Lookup("glass"); ok {
		v.place = id
	}
	v.input.Attach(window)

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if v.input.IsActive(input.ActionOrbit) {
			cam.Orbit(float32(xpos-v.lastX)*dragDegrees, float32(ypos-v.lastY)*dragDegrees)
		}
		v.lastX, v.lastY = xpos, ypos
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		if yoff > 0 {
			cam.Zoom(0.9)
		} else if yoff < 0 {
			cam.Zoom(1.1)
		}
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		if height == 0 {
			return
		}
		gl.Viewport(0, 0, int32(width), int32(height))
		cam.AspectRatio = float32(width) / float32(height)
	})
	return v
}

func (v *viewer) run(shader *graphics.Shader, texture uint32) {
	runLoop(v, shader, texture)
}

func (v *viewer) placeName() string {
	d, err := v.session.Blocks.Descriptor(v.place)
	if err != nil {
		return "?"
	}
	return d.Name
}

// update applies one frame of input and queues rebuilds for dirty chunks.
func (v *viewer) update(dt float32) {
	in := v.input
	if in.JustPressed(input.ActionQuit) {
		v.window.SetShouldClose(true)
	}
	if in.IsActive(input.ActionRotateLeft) {
		v.cam.Orbit(-orbitSpeed*dt, 0)
	}
	if in.IsActive(input.ActionRotateRight) {
		v.cam.Orbit(orbitSpeed*dt, 0)
	}
	if in.IsActive(input.ActionTiltUp) {
		v.cam.Orbit(0, orbitSpeed*dt)
	}
	if in.IsActive(input.ActionTiltDown) {
		v.cam.Orbit(0, -orbitSpeed*dt)
	}
	if in.JustPressed(input.ActionZoomIn) {
		v.cam.Zoom(0.8)
	}
	if in.JustPressed(input.ActionZoomOut) {
		v.cam.Zoom(1.25)
	}
	if in.JustPressed(input.ActionNextBlock) {
		v.nextPlaceBlock()
	}
	if in.JustPressed(input.ActionToggleWireframe) {
		v.wireframe = !v.wireframe
		if v.wireframe {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		} else {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		}
	}
	if in.JustPressed(input.ActionRebuildAll) {
		for _, c := range v.session.Loaded() {
			c.MarkDirty()
		}
	}
	if in.JustPressed(input.ActionRemoveBlock) || in.JustPressed(input.ActionPlaceBlock) {
		v.edit(in.JustPressed(input.ActionPlaceBlock))
	}
	if in.JustPressed(input.ActionExport) {
		v.exportOrigin()
	}

	for _, c := range v.session.Loaded() {
		v.chunks.Track(c)
	}
}

func (v *viewer) nextPlaceBlock() {
	n := v.session.Blocks.Len()
	for i := 1; i < n; i++ {
		id := world.BlockID((int(v.place) + i) % n)
		if !v.session.Blocks.IsAir(id) {
			v.place = id
			return
		}
	}
}

// pickRay returns the ray under the cursor in cell units.
func (v *viewer) pickRay() (mgl32.Vec3, mgl32.Vec3, bool) {
	width, height := v.window.GetSize()
	x, y := v.window.GetCursorPos()
	winY := float32(height) - float32(y)
	view := v.cam.GetViewMatrix()
	proj := v.cam.GetProjectionMatrix()

	near, err := mgl32.UnProject(mgl32.Vec3{float32(x), winY, 0}, view, proj, 0, 0, width, height)
	if err != nil {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	far, err := mgl32.UnProject(mgl32.Vec3{float32(x), winY, 1}, view, proj, 0, 0, width, height)
	if err != nil {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	cell := v.session.Config.Chunk.CellSize
	return near.Mul(1 / cell), far.Sub(near), true
}

func (v *viewer) edit(place bool) {
	start, dir, ok := v.pickRay()
	if !ok {
		return
	}
	maxDist := v.cam.Distance/v.session.Config.Chunk.CellSize + physics.MaxReachDistance
	hit := physics.Raycast(start, dir, 0, maxDist, v.session)
	if !hit.Hit {
		return
	}
	air, _ := v.session.Blocks.Lookup(registry.AirName)
	target, id := hit.HitPosition, air
	if place {
		target, id = hit.AdjacentPosition, v.place
	}
	if v.session.SetBlockAt(target[0], target[1], target[2], id) {
		logging.Debug("set %v to %d via %v face", target, id, hit.Face)
	}
}

func (v *viewer) exportOrigin() {
	s := v.session
	origin := s.Chunk(world.ChunkCoord{})
	mesh, err := s.Mesher.Rebuild(origin.Grid(), s.Blocks)
	if err != nil {
		logging.Error("export: %v", err)
		return
	}
	path := s.Config.Output.Path
	if path == "" {
		path = fmt.Sprintf("chunkview_%d.obj", v.exports)
	}
	v.exports++
	if err := export.WriteFile(path, "chunk_0_0_0", mesh, s.Config.Output.Compress); err != nil {
		logging.Error("export: %v", err)
		return
	}
	logging.Info("exported %d faces to %s", mesh.FaceCount(), path)
}
