package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/capture"
	"github.com/ayusman/airsketch/internal/config"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/server"
	"github.com/ayusman/airsketch/internal/store"
	"github.com/ayusman/airsketch/internal/tracking"
	"github.com/ayusman/airsketch/internal/tray"
)

func main() {
	fmt.Println("Airsketch - draw in the air with a pinch")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	style := canvas.PenStyle()
	style.Width = cfg.StrokeWidth

	sketch := app.New(app.Config{
		Width:      cfg.CanvasWidth,
		Height:     cfg.CanvasHeight,
		Thresholds: cfg.Thresholds(),
		Style:      style,
		Store:      st,
		Logger:     logger,
	})
	defer sketch.Close()

	src, closeSource, err := newSource(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracking: %v", err)
	}
	defer closeSource()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sketch.Start(ctx, src); err != nil {
		log.Fatalf("Failed to start tracking: %v", err)
	}

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		fmt.Printf("Serving static files from: %s\n", staticDir)
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: server.New(server.Config{
			StaticDir: staticDir,
			Store:     st,
			Sketch:    sketch,
			Logger:    logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	if cfg.Tray {
		runTray(ctx, stop, sketch, canvasURL(cfg.Addr))
	} else {
		<-ctx.Done()
	}

	fmt.Println("Shutting down")
	sketch.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", "error", err)
	}
}

// newSource builds the tracking source: a recorded replay when configured,
// otherwise the camera with the inference service. Without the inference
// service the camera runs against a mock detector that never sees a hand.
func newSource(cfg config.Config, logger *slog.Logger) (tracking.Source, func(), error) {
	if cfg.Replay != "" {
		replay, err := tracking.LoadReplay(cfg.Replay, cfg.ReplayInterval, cfg.ReplayLoop)
		if err != nil {
			return nil, nil, err
		}
		fmt.Printf("Replaying %d frames from %s\n", replay.Len(), cfg.Replay)
		return replay, func() {}, nil
	}

	camera := capture.NewDevice(capture.Config{
		DeviceID: cfg.CameraID,
		Width:    cfg.CanvasWidth,
		Height:   cfg.CanvasHeight,
		FPS:      capture.DefaultFPS,
		Mirror:   cfg.Mirror,
	})

	detCfg := detector.DefaultConfig()
	detCfg.Python = cfg.Python
	detCfg.Script = cfg.Script

	var det detector.Detector
	if service, err := detector.NewService(detCfg); err == nil {
		det = service
		logger.Info("using hand tracking service")
	} else {
		logger.Warn("hand tracking service not available, using mock detector", "error", err)
		det = detector.NewMockDetector()
	}

	source := tracking.NewCameraSource(camera, det, logger)
	return source, func() {
		if err := source.Close(); err != nil {
			logger.Warn("closing camera", "error", err)
		}
	}, nil
}

// runTray blocks in the system tray until Quit is chosen or ctx ends.
func runTray(ctx context.Context, stop context.CancelFunc, sketch *app.App, url string) {
	tr := tray.New(sketch.IsEnabled())
	tr.OnToggle(sketch.SetEnabled)
	tr.OnClear(sketch.ResetAll)
	tr.OnOpenCanvas(func() {
		if err := openBrowser(url); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})
	tr.OnQuit(stop)

	sketch.OnChange(func() {
		tr.SetDrawTime(sketch.CumulativeDrawMs(), sketch.Strokes())
	})

	go func() {
		<-ctx.Done()
		tr.Quit()
	}()

	tr.Run()
}

func canvasURL(addr string) string {
	host := addr
	if len(host) > 0 && host[0] == ':' {
		host = "localhost" + host
	}
	return "http://" + host + "/api/canvas.png"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.airsketch/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".airsketch", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
