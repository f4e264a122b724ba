// Package world ties the grid and the simulation systems together and runs
// them over a luminosity schedule.
package world

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/daisyworld/components"
	"github.com/pthm-cable/daisyworld/config"
	"github.com/pthm-cable/daisyworld/systems"
	"github.com/pthm-cable/daisyworld/telemetry"
)

// Options configures a World beyond the simulation parameters.
type Options struct {
	Seed     int64
	LogStats bool                     // log every luminosity step via slog
	Output   *telemetry.OutputManager // nil disables CSV output
	Perf     bool                     // time the phases of every cycle
}

// World holds the complete simulation state.
type World struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	grid    *systems.Grid
	thermal *systems.ThermalField
	life    *systems.LifecycleEngine
	repro   *systems.ReproductionScheduler

	// State
	step        int // index of the next luminosity in the schedule
	lastLum     float64
	cycle       int // cycles run so far
	generation  int // cycles with at least one reproduction round
	totalBirths int

	// Scratch buffers reused across cycles
	eligible []components.GridPos
	temps    []float64

	// Telemetry
	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool
	series    *telemetry.Series
	history   []telemetry.LuminosityStats
}

// New builds a world from cfg: a bare grid heated at the first luminosity,
// then seeded with the initial population.
func New(cfg *config.Config, opts Options) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if len(cfg.Derived.Schedule) == 0 {
		return nil, fmt.Errorf("empty luminosity schedule")
	}

	thermal := systems.NewThermalField(cfg.Thermal)
	life := systems.NewLifecycleEngine(cfg, thermal)

	w := &World{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		seed:      opts.Seed,
		grid:      systems.NewGrid(cfg.Grid.Width, cfg.Grid.Height),
		thermal:   thermal,
		life:      life,
		repro:     systems.NewReproductionScheduler(cfg, life),
		temps:     make([]float64, 0, cfg.Derived.TotalCells),
		collector: telemetry.NewCollector(),
		bookmarks: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		output:    opts.Output,
		logStats:  opts.LogStats,
		series:    telemetry.NewSeries(len(cfg.Derived.Schedule)),
	}
	if opts.Perf {
		w.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}

	w.heatBareGround(cfg.Derived.Schedule[0])
	w.seedPopulation()

	return w, nil
}

// Grid returns the cell grid.
func (w *World) Grid() *systems.Grid {
	return w.grid
}

// Census returns the current colour counts.
func (w *World) Census() systems.Census {
	return w.grid.Census()
}

// Generation returns the number of cycles that produced a reproduction round.
func (w *World) Generation() int {
	return w.generation
}

// Cycles returns the number of cycles run so far.
func (w *World) Cycles() int {
	return w.cycle
}

// TotalBirths returns the number of offspring placed since the world was built.
func (w *World) TotalBirths() int {
	return w.totalBirths
}

// Seed returns the RNG seed.
func (w *World) Seed() int64 {
	return w.seed
}

// Series returns the aligned per-luminosity output recorded so far.
func (w *World) Series() *telemetry.Series {
	return w.series
}

// History returns every LuminosityStats recorded so far.
func (w *World) History() []telemetry.LuminosityStats {
	return w.history
}

// Done reports whether the luminosity schedule is exhausted.
func (w *World) Done() bool {
	return w.step >= len(w.cfg.Derived.Schedule)
}

// Albedo returns the current planetary albedo.
func (w *World) Albedo() float64 {
	c := w.grid.Census()
	return w.thermal.AverageAlbedo(c.Black, c.White, w.grid.TotalCells())
}
