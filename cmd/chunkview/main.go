package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"chunkmesh/internal/config"
	"chunkmesh/internal/game"
	"chunkmesh/internal/graphics"
	"chunkmesh/internal/logging"
	"chunkmesh/internal/meshing"
	"chunkmesh/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
)

const (
	winWidth  = 1280
	winHeight = 720
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config file (default $CHUNKMESH_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	s, err := game.NewSession(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	closer.Bind(glfw.Terminate)

	window, err := setupWindow()
	if err != nil {
		closer.Fatalln(err)
	}

	shader, err := graphics.NewChunkShader()
	if err != nil {
		closer.Fatalln(err)
	}

	texture, err := atlasTexture(cfg, s)
	if err != nil {
		closer.Fatalln(err)
	}

	workers := runtime.NumCPU() / 2
	pool := meshing.NewWorkerPool(s.Mesher, workers, 64)
	closer.Bind(pool.Shutdown)
	chunks := graphics.NewChunkRenderer(pool, s.Blocks, cfg.Chunk.CellSize)

	span := float32(world.ChunkSize) * cfg.Chunk.CellSize
	cam := graphics.NewCamera(winWidth, winHeight, mgl32.Vec3{span / 2, float32(cfg.Generator.Level) * cfg.Chunk.CellSize, span / 2})
	cam.Distance = span * float32(2*cfg.Viewer.Radius+1)

	v := newViewer(window, s, chunks, cam)
	logging.Info("chunkview: %d chunks, %d mesh workers; drag to orbit, right click removes, middle click places, O exports",
		len(s.ChunksAround(cfg.Viewer.Radius)), workers)
	v.run(shader, texture)

	// GL objects belong to this thread; closer handlers may run elsewhere.
	chunks.Delete()
	shader.Delete()
	closer.Close()
}

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(winWidth, winHeight, "chunkview", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		return nil, err
	}
	glfw.SwapInterval(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.53, 0.81, 0.92, 1.0)
	return window, nil
}

func atlasTexture(cfg *config.Config, s *game.Session) (uint32, error) {
	if cfg.Atlas.Image == "" {
		return graphics.CheckerAtlas(s.Blocks.Layout()), nil
	}
	return graphics.LoadAtlas(cfg.Atlas.Image, s.Blocks.Layout())
}

func runLoop(v *viewer, shader *graphics.Shader, texture uint32) {
	limiter := game.NewFPSLimiter()
	frames := 0
	lastFPSCheck := time.Now()
	lastTime := time.Now()

	for !v.window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		v.update(dt)
		v.chunks.ProcessResults()

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		v.chunks.Render(shader, texture, v.cam)
		v.window.SwapBuffers()
		v.input.PostUpdate()
		glfw.PollEvents()
		frames++

		if time.Since(lastFPSCheck) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("chunkview - %d fps, %d rebuilds pending, placing %s",
				frames, v.chunks.Pending(), v.placeName()))
			frames = 0
			lastFPSCheck = time.Now()
		}
		limiter.Wait(v.session.Config.Viewer.FPSLimit, v.window.GetAttrib(glfw.Focused) == glfw.False)
	}
}
