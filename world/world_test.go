package world

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/daisyworld/components"
	"github.com/pthm-cable/daisyworld/config"
	"github.com/pthm-cable/daisyworld/genetics"
	"github.com/pthm-cable/daisyworld/systems"
	"github.com/pthm-cable/daisyworld/telemetry"
)

// testConfig returns the defaults on a w*h grid with an explicit schedule.
func testConfig(t *testing.T, w, h, initial int, schedule ...float64) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	cfg.Grid.Width = w
	cfg.Grid.Height = h
	cfg.Population.Initial = initial
	cfg.Luminosity.Values = schedule
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalizing config: %v", err)
	}
	return cfg
}

func newTestWorld(t *testing.T, cfg *config.Config, seed int64) *World {
	t.Helper()
	w, err := New(cfg, Options{Seed: seed})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func checkCensus(t *testing.T, w *World) {
	t.Helper()
	if got, want := w.Census(), w.Grid().Recount(); got != want {
		t.Fatalf("census %+v disagrees with recount %+v", got, want)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, 10, 10, 5, 1.0)
	cfg.Grid.Width = 0
	if _, err := New(cfg, Options{}); err == nil {
		t.Error("expected error for zero-width grid")
	}
}

func TestSeedingPlacesPopulationInBand(t *testing.T) {
	cfg := testConfig(t, 50, 50, 350, 1.0)
	w := newTestWorld(t, cfg, 1)

	if got := w.Census().Total(); got != 350 {
		t.Fatalf("seeded %d daisies, want 350", got)
	}
	checkCensus(t, w)

	w.Grid().EachOrganism(func(pos components.GridPos, org *components.Organism) {
		if pos.Y < 10 || pos.Y > 39 {
			t.Errorf("daisy at %+v outside seeding rows [10, 39]", pos)
		}
		if org.Age < 0 || org.Age > 15 {
			t.Errorf("initial age %d outside [0, 15]", org.Age)
		}
		if org.Nutrients < 2 || org.Nutrients > 5 {
			t.Errorf("initial nutrients %v outside [2, 5]", org.Nutrients)
		}
		if !org.Genome.Valid() {
			t.Errorf("invalid genome %v", org.Genome)
		}
	})
}

func TestSeedingClampsToBandCapacity(t *testing.T) {
	// Rows [1, 3] of a 5-high grid: 4*3 = 12 cells
	cfg := testConfig(t, 4, 5, 50, 1.0)
	w := newTestWorld(t, cfg, 2)

	if got := w.Census().Total(); got != 12 {
		t.Errorf("seeded %d daisies, want band capacity 12", got)
	}
	checkCensus(t, w)
}

func TestInitialTemperaturesUseBareGround(t *testing.T) {
	cfg := testConfig(t, 6, 6, 0, 1.0)
	w := newTestWorld(t, cfg, 3)
	thermal := systems.NewThermalField(cfg.Thermal)

	for y := 0; y < 6; y++ {
		want := thermal.LocalTemperature(0.5, y, 6, 0.5, 1.0)
		if got := w.Grid().Climate(2, y).LocalTemp; math.Abs(got-want) > 1e-12 {
			t.Errorf("row %d LocalTemp = %v, want %v", y, got, want)
		}
	}
}

func TestCycleOnBarePlanet(t *testing.T) {
	cfg := testConfig(t, 5, 5, 0, 1.0)
	w := newTestWorld(t, cfg, 4)

	stats := w.Cycle(1.0)

	if stats.AvgAlbedo != 0.5 {
		t.Errorf("bare albedo = %v, want 0.5", stats.AvgAlbedo)
	}
	if stats.Black != 0 || stats.White != 0 || stats.Births != 0 {
		t.Errorf("bare planet produced life: %+v", stats)
	}
	if w.Generation() != 0 {
		t.Errorf("generation = %d, want 0 without reproduction", w.Generation())
	}

	var sum float64
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			sum += w.Grid().Climate(x, y).SmoothedTemp
		}
	}
	if math.Abs(stats.AvgTemp-sum/25) > 1e-9 {
		t.Errorf("AvgTemp = %v, want mean smoothed temp %v", stats.AvgTemp, sum/25)
	}
}

func TestCycleReproducesMaturePair(t *testing.T) {
	cfg := testConfig(t, 10, 10, 0, 1.0)
	w := newTestWorld(t, cfg, 5)

	g := w.Grid()
	for _, p := range []components.GridPos{{X: 2, Y: 2}, {X: 3, Y: 3}} {
		g.Place(p.X, p.Y, components.Organism{
			Genome:    genetics.Genome{0.5, 0.5, 0.5, 0.5, 0.5},
			Color:     components.White,
			Age:       25,
			Nutrients: 30,
			OptTemp:   22.5,
		})
	}

	stats := w.Cycle(1.0)

	if stats.SexualRounds != 1 || stats.ClonalRounds != 0 {
		t.Errorf("rounds = %d sexual / %d clonal, want 1 / 0", stats.SexualRounds, stats.ClonalRounds)
	}
	if n := stats.Births + stats.Overcrowded; n < 3 || n > 7 {
		t.Errorf("offspring attempted = %d, want in [3, 7]", n)
	}
	if w.Generation() != 1 {
		t.Errorf("generation = %d, want 1", w.Generation())
	}
	if got := stats.Black + stats.White; got != 2+stats.Births {
		t.Errorf("census %d, want parents plus %d births", got, stats.Births)
	}
	if w.TotalBirths() != stats.Births {
		t.Errorf("TotalBirths = %d, want %d", w.TotalBirths(), stats.Births)
	}
	checkCensus(t, w)
}

func TestRunKeepsSeriesAligned(t *testing.T) {
	schedule := []float64{0.8, 0.9, 1.0, 1.1}
	cfg := testConfig(t, 20, 20, 60, schedule...)
	w := newTestWorld(t, cfg, 6)

	series := w.Run()

	if !w.Done() {
		t.Error("world should be done after Run")
	}
	if series.Len() != len(schedule) {
		t.Fatalf("series length %d, want %d", series.Len(), len(schedule))
	}
	for i, lum := range schedule {
		if series.Luminosity[i] != lum {
			t.Errorf("Luminosity[%d] = %v, want %v", i, series.Luminosity[i], lum)
		}
		if a := series.AvgAlbedo[i]; a < 0.25 || a > 0.75 {
			t.Errorf("AvgAlbedo[%d] = %v outside [0.25, 0.75]", i, a)
		}
	}
	if len(w.History()) != len(schedule) {
		t.Errorf("history length %d, want %d", len(w.History()), len(schedule))
	}
	if w.Cycles() != 5*len(schedule) {
		t.Errorf("cycles = %d, want %d", w.Cycles(), 5*len(schedule))
	}
	last := w.History()[len(schedule)-1]
	if series.Black[len(schedule)-1] != last.Black || last.Black != w.Census().Black {
		t.Errorf("final census mismatch: series %d, stats %d, grid %d",
			series.Black[len(schedule)-1], last.Black, w.Census().Black)
	}
	checkCensus(t, w)

	if _, ok := w.Next(); ok {
		t.Error("Next should report an exhausted schedule")
	}
}

func TestCensusInvariantAcrossCycles(t *testing.T) {
	cfg := testConfig(t, 15, 15, 80, 1.0)
	cfg.Lifecycle.MaturityAge = 2
	cfg.Lifecycle.ReproductionThreshold = 3
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	w := newTestWorld(t, cfg, 7)

	for i := 0; i < 20; i++ {
		stats := w.Cycle(1.0)
		checkCensus(t, w)
		if stats.Black+stats.White > w.Grid().TotalCells() {
			t.Fatalf("cycle %d: census %d exceeds grid", i, stats.Black+stats.White)
		}
	}
	if w.Generation() == 0 {
		t.Error("expected at least one reproduction round with eased maturity")
	}
}

func TestBarrenPlanetKeepsCycling(t *testing.T) {
	cfg := testConfig(t, 10, 10, 30, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0)
	cfg.Lifecycle.ReproductionThreshold = 1e9
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	w := newTestWorld(t, cfg, 8)

	series := w.Run()

	// Nobody reproduces, so everyone is dead after 31 cycles; the remaining
	// steps must still run their cycles.
	if w.Census().Total() != 0 {
		t.Errorf("census = %+v, want extinct", w.Census())
	}
	if w.Cycles() != 40 || series.Len() != 8 {
		t.Errorf("cycles = %d, steps = %d, want 40 / 8", w.Cycles(), series.Len())
	}
	if w.Generation() != 0 {
		t.Errorf("generation = %d, want 0", w.Generation())
	}
	if got := series.AvgAlbedo[7]; got != 0.5 {
		t.Errorf("barren albedo = %v, want 0.5", got)
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() *telemetry.Series {
		cfg := testConfig(t, 20, 20, 100, 0.9, 1.0, 1.1)
		cfg.Lifecycle.MaturityAge = 5
		cfg.Lifecycle.ReproductionThreshold = 6
		if err := cfg.Finalize(); err != nil {
			t.Fatal(err)
		}
		return newTestWorld(t, cfg, 99).Run()
	}

	a, b := run(), run()
	for i := 0; i < a.Len(); i++ {
		if a.AvgTemp[i] != b.AvgTemp[i] || a.Black[i] != b.Black[i] || a.White[i] != b.White[i] {
			t.Fatalf("step %d differs: (%v, %d, %d) vs (%v, %d, %d)",
				i, a.AvgTemp[i], a.Black[i], a.White[i], b.AvgTemp[i], b.Black[i], b.White[i])
		}
	}
}

func TestSnapshotMatchesGrid(t *testing.T) {
	cfg := testConfig(t, 8, 6, 12, 1.0, 1.05)
	w := newTestWorld(t, cfg, 10)
	w.Run()

	s := w.Snapshot(nil)
	if len(s.Cells) != 48 {
		t.Fatalf("cells = %d, want 48", len(s.Cells))
	}
	if s.Occupied() != w.Census().Total() {
		t.Errorf("snapshot has %d daisies, census %d", s.Occupied(), w.Census().Total())
	}
	if s.Step != 1 || s.Luminosity != 1.05 || s.RNGSeed != 10 {
		t.Errorf("snapshot header = step %d lum %v seed %d", s.Step, s.Luminosity, s.RNGSeed)
	}
	for _, c := range s.Cells {
		if c.Daisy != nil && c.Daisy.Color != "black" && c.Daisy.Color != "white" {
			t.Errorf("cell %d,%d has colour %q", c.X, c.Y, c.Daisy.Color)
		}
	}
}

func TestRunWritesOutput(t *testing.T) {
	dir := t.TempDir()
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(t, 10, 10, 20, 0.9, 1.0, 1.1)
	w, err := New(cfg, Options{Seed: 11, Output: om, Perf: true})
	if err != nil {
		t.Fatal(err)
	}
	w.Run()
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		file string
		rows int
	}{
		{"luminosity.csv", 3},
		{"cycles.csv", 15},
		{"perf.csv", 3},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatal(err)
			}
			lines := strings.Count(strings.TrimSpace(string(data)), "\n") + 1
			if lines != tt.rows+1 {
				t.Errorf("%s has %d lines, want header plus %d rows", tt.file, lines, tt.rows)
			}
		})
	}
}
