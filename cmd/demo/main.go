// cmd/demo/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-hitbox/pkg/collision"
	"github.com/opd-ai/go-hitbox/pkg/config"
	"github.com/opd-ai/go-hitbox/pkg/geometry"
	"github.com/opd-ai/go-hitbox/pkg/integrity"
	"github.com/opd-ai/go-hitbox/pkg/logging"
	"github.com/opd-ai/go-hitbox/pkg/render"
	engorender "github.com/opd-ai/go-hitbox/pkg/render/engo"
	"github.com/opd-ai/go-hitbox/pkg/resource"
	"github.com/opd-ai/go-hitbox/pkg/scene"
)

// rebuildThreshold is the stale write count that triggers a background
// quadtree rebuild.
const rebuildThreshold = 64

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	presetName := flag.String("preset", "", "Scene preset: sparse_world, dense_field or stress_test")
	rendererType := flag.String("renderer", "terminal", "Renderer type: 'terminal' or 'engo'")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (Engo only)")
	width := flag.Int("width", 1024, "Window width (Engo only)")
	height := flag.Int("height", 768, "Window height (Engo only)")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	// Load configuration
	var hitboxConfig *config.HitboxConfig

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		hitboxConfig = config.DefaultConfig()
	} else {
		hitboxConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
	}

	// Apply the scene preset, if one was requested
	shapeCount := 50
	if *presetName != "" {
		preset := config.GetScenePreset(*presetName)
		if preset == nil {
			logger.Error(ctx, "Unknown scene preset", nil,
				"preset", *presetName,
			)
			os.Exit(1)
		}
		if err := config.ApplyScenePreset(hitboxConfig, *presetName); err != nil {
			logger.Error(ctx, "Failed to apply scene preset", err)
			os.Exit(1)
		}
		shapeCount = preset.ShapeCount
		logger.Info(ctx, "Applied scene preset",
			"preset", *presetName,
			"description", preset.Description,
			"shape_count", shapeCount,
		)
	}

	// Apply environment variable overrides
	if err := config.ApplyEnvironmentOverrides(hitboxConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	// Resource limits come from the environment only
	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "Failed to load environment configuration", err)
		os.Exit(1)
	}

	// Create the collision scene and seed it with shapes
	hitboxScene := scene.NewScene(hitboxConfig, logger)
	seedScene(ctx, hitboxScene, hitboxConfig, shapeCount, logger)

	// Background workers run under the resource manager
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	resourceManager := resource.NewResourceManager(envConfig)
	if err := resourceManager.Start(); err != nil {
		logger.Error(ctx, "Failed to start resource manager", err)
		os.Exit(1)
	}

	if err := resourceManager.StartGoroutine(workerCtx, "rebuild_loop", rebuildLoop(hitboxScene, logger)); err != nil {
		logger.Error(ctx, "Failed to start rebuild loop", err)
	}

	// Integrity endpoints report on the running scene
	integrityServer := startIntegrityServer(ctx, hitboxScene, hitboxConfig, envConfig, resourceManager, logger)

	logger.Info(ctx, "Starting demo",
		"renderer", *rendererType,
		"shapes", hitboxScene.ShapeCount(),
		"quadtree", hitboxScene.UsingQuadTree(),
	)

	// Run the chosen renderer; both block until the user quits
	switch *rendererType {
	case "engo":
		runEngoDemo(hitboxScene, *width, *height, *fullscreen)
	case "terminal":
		fallthrough
	default:
		runTerminalDemo(hitboxScene, hitboxConfig, logger)
	}

	// Graceful shutdown
	logger.Info(ctx, "Shutting down demo")
	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), envConfig.ShutdownTimeout)
	defer cancel()

	if err := integrityServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Integrity server shutdown failed", err)
	}
	if err := resourceManager.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Resource manager shutdown failed", err)
	}
	hitboxScene.Close()
}

// seedScene fills the scene with a deterministic layout of circles,
// rectangles and triangles spread over the world.
func seedScene(ctx context.Context, sc *scene.Scene, cfg *config.HitboxConfig, count int, logger *logging.Logger) {
	bounds := demoBounds(cfg)
	rng := rand.New(rand.NewSource(1))

	// Shape extent relative to the world, so every preset looks similar
	unit := math.Min(bounds.Width, bounds.Height) / 50

	randomCenter := func() geometry.Vector2 {
		return geometry.Vector2{
			X: bounds.X + unit + rng.Float64()*(bounds.Width-2*unit),
			Y: bounds.Y + unit + rng.Float64()*(bounds.Height-2*unit),
		}
	}

	for i := 0; i < count; i++ {
		var (
			label string
			g     geometry.Geometry
		)

		center := randomCenter()
		size := unit * (0.5 + rng.Float64())

		switch i % 3 {
		case 0:
			label = fmt.Sprintf("circle-%d", i)
			g = geometry.NewCircle(center, size)
		case 1:
			label = fmt.Sprintf("rect-%d", i)
			g = geometry.NewRect(center.X-size, center.Y-size, size*2, size*2)
		case 2:
			label = fmt.Sprintf("triangle-%d", i)
			polygon, err := geometry.NewPolygon([]geometry.Vector2{
				{X: center.X, Y: center.Y - size},
				{X: center.X + size, Y: center.Y + size},
				{X: center.X - size, Y: center.Y + size},
			})
			if err != nil {
				logger.Warn(ctx, "Skipping invalid triangle", "index", i, "error", err)
				continue
			}
			g = polygon
		}

		if _, err := sc.AddShape(label, g); err != nil {
			logger.Warn(ctx, "Stopped seeding shapes", "added", i, "error", err)
			return
		}
	}

	logger.Info(ctx, "Seeded scene", "shapes", sc.ShapeCount())
}

// demoBounds returns the world extent to seed and render, falling back
// to a fixed region around the origin for unbounded worlds.
func demoBounds(cfg *config.HitboxConfig) geometry.AABB {
	if bounds := cfg.WorldBounds(); bounds != nil {
		return *bounds
	}
	return geometry.NewAABB(-1000, -1000, 2000, 2000)
}

// rebuildLoop rebuilds a stale quadtree in the background. The loop only
// rebuilds while the quadtree is answering queries; grid-only scenes
// never accumulate staleness that matters.
func rebuildLoop(sc *scene.Scene, logger *logging.Logger) func(context.Context) {
	return func(ctx context.Context) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if sc.UsingQuadTree() && sc.StaleWrites() > rebuildThreshold {
					pending := sc.StaleWrites()
					sc.Rebuild()
					logger.Debug(ctx, "Rebuilt stale quadtree", "stale_writes", pending)
				}
			}
		}
	}
}

// startIntegrityServer wires the scene's invariant checks into liveness
// and readiness endpoints and serves them in the background.
func startIntegrityServer(
	ctx context.Context,
	sc *scene.Scene,
	cfg *config.HitboxConfig,
	envConfig *config.EnvironmentConfig,
	rm *resource.ResourceManager,
	logger *logging.Logger,
) *http.Server {
	checker := integrity.NewIntegrityChecker()

	checker.AddCheck(integrity.NewGridConsistencyCheck(sc.CheckConsistency))

	checker.AddCheck(integrity.NewTreeStalenessCheck(sc.StaleWrites, sc.UsingQuadTree))
	checker.AddCheck(integrity.NewSceneCapacityCheck(cfg.Scene.MaxShapes, sc.ShapeCount))
	checker.AddCheck(integrity.NewDetectorActiveCheck(sc.Detector().Enabled))

	checker.AddCheck(integrity.NewMemoryCheck(envConfig.MaxMemoryMB, func() int64 {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return int64(m.Alloc / 1024 / 1024)
	}))

	checker.AddCheck(resource.NewResourceCheck(rm))

	integrityPort := "8080" // Default integrity endpoint port
	if envPort := os.Getenv("HITBOX_INTEGRITY_PORT"); envPort != "" {
		if _, err := strconv.Atoi(envPort); err == nil {
			integrityPort = envPort
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.LivenessHandler)
	mux.HandleFunc("/ready", checker.ReadinessHandler)

	server := &http.Server{
		Addr:         ":" + integrityPort,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "Starting integrity endpoint server",
			"port", integrityPort,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Integrity endpoint server failed", err)
		}
	}()

	return server
}

// runEngoDemo starts the interactive Engo sandbox
func runEngoDemo(sc *scene.Scene, width, height int, fullscreen bool) {
	sandbox := engorender.NewSandboxScene(sc)

	opts := engo.RunOptions{
		Title:      "Hitbox Sandbox",
		Width:      width,
		Height:     height,
		Fullscreen: fullscreen,
		VSync:      true,
	}

	// Blocks until the window closes
	engo.Run(opts, sandbox)
}

// runTerminalDemo renders the scene as ASCII frames while a probe point
// orbits the world, point-testing and ray-casting as it goes.
func runTerminalDemo(sc *scene.Scene, cfg *config.HitboxConfig, logger *logging.Logger) {
	ctx := context.Background()
	bounds := demoBounds(cfg)

	const screenWidth, screenHeight = 100, 30
	scale := math.Max(bounds.Width/screenWidth, bounds.Height/screenHeight)

	renderer := render.NewTerminalRenderer(screenWidth, screenHeight, scale)
	renderer.SetCenter(bounds.Center())

	center := bounds.Center()
	orbitRadius := math.Min(bounds.Width, bounds.Height) / 3

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	angle := 0.0
	for {
		select {
		case <-sigChan:
			return
		case <-ticker.C:
			angle += 0.1

			// The probe orbits the world center
			probe := center.Add(geometry.Vector2{
				X: math.Cos(angle) * orbitRadius,
				Y: math.Sin(angle) * orbitRadius,
			})
			hits := sc.ShapesAt(probe)

			// Cast a ray from the center toward the probe
			rayTarget := probe
			rayHit := sc.CastRay(center, probe.Sub(center), bounds.Width+bounds.Height)
			if rayHit != nil {
				rayTarget = rayHit.Point
			}

			driftShapes(ctx, sc, angle, scale, logger)

			renderer.Clear()
			for _, shape := range sc.Shapes() {
				renderer.RenderShape(shape)
			}
			renderer.RenderRay(center, rayTarget)
			renderer.RenderMarker(rayTarget, rayHit != nil)
			renderer.RenderMarker(probe, len(hits) > 0)
			renderer.Present()

			printStats(sc, probe, hits, rayHit)
		}
	}
}

// driftShapes nudges a few shapes each frame so index updates and move
// events keep flowing.
func driftShapes(ctx context.Context, sc *scene.Scene, angle, scale float64, logger *logging.Logger) {
	shapes := sc.Shapes()
	step := scale / 2

	for i, shape := range shapes {
		if i >= 5 {
			break
		}

		offset := geometry.Vector2{
			X: math.Cos(angle+float64(i)) * step,
			Y: math.Sin(angle+float64(i)) * step,
		}
		target := shape.GetGeometry().Center().Add(offset)

		if err := sc.MoveShape(shape.ID, target); err != nil {
			logger.Debug(ctx, "Drift move rejected", "shape_id", uint64(shape.ID), "error", err)
		}
	}
}

// printStats writes a one-line query and index summary under the frame
func printStats(sc *scene.Scene, probe geometry.Vector2, hits []*scene.Shape, rayHit *collision.RayHit) {
	stats := sc.Stats()

	index := "grid"
	if stats.UsingQuadTree {
		index = "quadtree"
	}

	rayLabel := "miss"
	if rayHit != nil {
		if shape, ok := rayHit.Object.(*scene.Shape); ok {
			rayLabel = shape.Label
		}
	}

	fmt.Printf("index=%s shapes=%d cells=%d stale=%d probe=(%.0f,%.0f) hover=%d ray=%s\n",
		index, stats.Grid.ObjectCount, stats.Grid.CellCount, stats.StaleWrites,
		probe.X, probe.Y, len(hits), rayLabel)
}
