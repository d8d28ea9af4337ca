package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chunkmesh/internal/config"
	"chunkmesh/internal/export"
	"chunkmesh/internal/game"
	"chunkmesh/internal/logging"
	"chunkmesh/internal/meshing"
	"chunkmesh/internal/profiling"
	"chunkmesh/internal/world"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (default $CHUNKMESH_CONFIG)")
		catalog    = flag.String("catalog", "", "Block catalog directory, overrides catalog.path")
		generator  = flag.String("gen", "", "Generator: flat, perlin, simplex")
		seed       = flag.Int64("seed", 0, "Generator seed, overrides generator.seed when non-zero")
		workers    = flag.Int("workers", -1, "Rebuild workers per chunk, 0 = GOMAXPROCS")
		radius     = flag.Int("radius", 0, "Mesh (2r+1)^2 chunks on the worker pool")
		out        = flag.String("out", "", "OBJ output path (a .zst suffix compresses)")
		compress   = flag.Bool("compress", false, "zstd-compress the OBJ output")
		metrics    = flag.String("metrics", "", "Serve Prometheus metrics on this address and wait for SIGINT")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *catalog != "" {
		cfg.Catalog.Path = *catalog
	}
	if *generator != "" {
		cfg.Generator.Kind = *generator
	}
	if *seed != 0 {
		cfg.Generator.Seed = *seed
	}
	if *workers >= 0 {
		cfg.Meshing.Workers = *workers
	}
	if *out != "" {
		cfg.Output.Path = *out
	}
	if *compress {
		cfg.Output.Compress = true
	}
	if *metrics != "" {
		cfg.Metrics.Addr = *metrics
	}

	if err := run(cfg, *radius); err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, radius int) error {
	reg := prometheus.NewRegistry()
	s, err := game.NewSession(cfg, reg)
	if err != nil {
		return err
	}
	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, reg)
	}

	origin := s.Chunk(world.ChunkCoord{})
	mesh, err := s.Mesher.Rebuild(origin.Grid(), s.Blocks)
	if err != nil {
		return fmt.Errorf("rebuild origin chunk: %w", err)
	}
	origin.SetClean()
	logging.Info("chunk %v: %d faces, %d vertices, %d indices (workers=%d, winding=%s)",
		origin.Coord, mesh.FaceCount(), len(mesh.Vertices), len(mesh.Indices), config.GetWorkers(), cfg.Meshing.Winding)

	if radius > 0 {
		s.ChunksAround(radius)
		pool := meshing.NewWorkerPool(s.Mesher, config.GetWorkers(), len(s.Loaded()))
		_, stats, err := s.RebuildDirty(context.Background(), pool)
		pool.Shutdown()
		if err != nil {
			return err
		}
		logging.Info("pool rebuilt %d chunks: %d faces, %d vertices in %v",
			stats.Chunks, stats.Faces, stats.Vertices, stats.Elapsed)
	}
	logging.Info("stage times: %s", profiling.TopN(4))

	if cfg.Output.Path != "" {
		name := fmt.Sprintf("chunk_%d_%d_%d", origin.Coord.X, origin.Coord.Y, origin.Coord.Z)
		if err := export.WriteFile(cfg.Output.Path, name, mesh, cfg.Output.Compress); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		logging.Info("wrote %s", cfg.Output.Path)
	}

	if cfg.Metrics.Addr != "" {
		logging.Info("serving metrics on %s/metrics, Ctrl+C to exit", cfg.Metrics.Addr)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logging.Error("metrics server: %v", err)
	}
}
