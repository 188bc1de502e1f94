package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"trafficflow/internal/app"
	"trafficflow/internal/config"
	"trafficflow/internal/logger"
	"trafficflow/internal/model"
	"trafficflow/internal/service"
	"trafficflow/internal/service/chart"
	"trafficflow/internal/service/history"
	"trafficflow/internal/service/source"
)

type options struct {
	videoPath string
	frames    int
	pngOut    string
	htmlOut   string
	quiet     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.videoPath, "video", "", "Video file to analyze (omit to use the camera)")
	flag.IntVar(&opts.frames, "frames", history.Capacity, "Number of frames to analyze")
	flag.StringVar(&opts.pngOut, "chart", "", "Write the history chart as PNG to this path")
	flag.StringVar(&opts.htmlOut, "html", "", "Write the interactive history chart to this path")
	flag.BoolVar(&opts.quiet, "quiet", false, "Only print the final summary")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

// run opens the source described by the environment (PROBE_TIMEOUT_MS,
// CAMERA_CONFIG, RELEASE_SETTLE_MS) and analyzes up to opts.frames frames.
// The capture handle is released before run returns.
func run(opts options) error {
	if opts.frames <= 0 {
		return errors.New("-frames must be positive")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logs := logger.NewWriterLogger(os.Stderr)

	candidates, err := app.BuildCandidates(cfg.Camera.Candidates)
	if err != nil {
		return fmt.Errorf("failed to build camera candidates: %w", err)
	}
	src := source.NewManager(source.GocvOpener{}, source.Options{
		Width:         cfg.Camera.Width,
		Height:        cfg.Camera.Height,
		ProbeTimeout:  cfg.Camera.ProbeTimeout,
		ReleaseSettle: cfg.ReleaseSettle,
		Candidates:    candidates,
	}, logs)
	manager := service.NewManager(src, nil, nil, logs)
	defer manager.Shutdown()

	if opts.videoPath != "" {
		err = manager.LoadFileSource(opts.videoPath)
	} else {
		err = manager.SelectCameraSource()
	}
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}

	for i := 0; i < opts.frames; i++ {
		result, err := manager.CaptureAndAnalyze()
		if err != nil {
			log.Printf("❌ Frame %d: %v", i, err)
			break
		}
		if !opts.quiet {
			fmt.Printf("%4d  density=%.3f  vehicles=%3d  level=%-6s  %s\n",
				i, result.Density, result.VehicleCount, result.Level, result.Summary)
		}
	}

	samples := manager.HistorySnapshot()
	summary := history.Summarize(samples)
	latency := manager.Latency()
	fmt.Printf("\nsamples=%d mean=%.3f std=%.3f max=%.3f vehicles=%.1f levels=%v\n",
		summary.Count, summary.MeanDensity, summary.StdDevDensity, summary.MaxDensity, summary.MeanVehicles, summary.Levels)
	fmt.Printf("latency p50=%.1fms p95=%.1fms max=%.1fms\n", latency.P50Ms, latency.P95Ms, latency.MaxMs)

	if opts.pngOut != "" {
		writeOutput(opts.pngOut, samples, chart.RenderPNG)
	}
	if opts.htmlOut != "" {
		writeOutput(opts.htmlOut, samples, chart.RenderHTML)
	}
	return nil
}

func writeOutput(path string, samples []model.FrameSample, render func([]model.FrameSample) ([]byte, error)) {
	data, err := render(samples)
	if err != nil {
		log.Printf("⚠️  Skipping %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("⚠️  Failed to write %s: %v", path, err)
		return
	}
	fmt.Printf("✅ Wrote %s\n", path)
}
