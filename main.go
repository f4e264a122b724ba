package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/daisyworld/config"
	"github.com/pthm-cable/daisyworld/report"
	"github.com/pthm-cable/daisyworld/telemetry"
	"github.com/pthm-cable/daisyworld/world"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output per-luminosity stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and snapshots")
	plotDir := flag.String("plot-dir", "", "Directory for temperature, albedo and population plots")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	perf := flag.Bool("perf", false, "Time simulation phases")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	w, err := world.New(cfg, world.Options{
		Seed:     rngSeed,
		LogStats: *logStats,
		Output:   output,
		Perf:     *perf,
	})
	if err != nil {
		output.Close()
		slog.Error("failed to build world", "error", err)
		os.Exit(1)
	}

	census := w.Census()
	slog.Info("starting simulation",
		"seed", rngSeed,
		"width", cfg.Grid.Width,
		"height", cfg.Grid.Height,
		"luminosity_steps", len(cfg.Derived.Schedule),
		"black", census.Black,
		"white", census.White,
	)

	start := time.Now()
	series := w.Run()

	census = w.Census()
	slog.Info("simulation finished",
		"elapsed", time.Since(start).String(),
		"cycles", w.Cycles(),
		"generation", w.Generation(),
		"total_births", w.TotalBirths(),
		"black", census.Black,
		"white", census.White,
	)

	if lo, hi, ok := series.HabitableRange(cfg.Optimize.HabitableMin, cfg.Optimize.HabitableMax); ok {
		slog.Info("habitable range", "from", lo, "to", hi)
	}

	if path, err := output.WriteSnapshot(w.Snapshot(nil)); err != nil {
		slog.Error("failed to save final snapshot", "error", err)
	} else if path != "" {
		slog.Info("snapshot saved", "path", path)
	}

	exitCode := 0
	if *plotDir != "" {
		paths, err := report.WritePlots(series, *plotDir)
		if err != nil {
			slog.Error("failed to write plots", "error", err)
			exitCode = 1
		}
		for _, p := range paths {
			slog.Info("plot saved", "path", p)
		}
	}

	if err := output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		exitCode = 1
	}
	os.Exit(exitCode)
}
