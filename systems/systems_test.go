package systems

import (
	"testing"

	"github.com/pthm-cable/daisyworld/components"
	"github.com/pthm-cable/daisyworld/config"
	"github.com/pthm-cable/daisyworld/genetics"
)

// testConfig loads the embedded defaults resized to a w*h grid.
func testConfig(t *testing.T, w, h int) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	cfg.Grid.Width = w
	cfg.Grid.Height = h
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalizing config: %v", err)
	}
	return cfg
}

// testSystems wires the three systems over a fresh grid.
type testSystems struct {
	cfg     *config.Config
	grid    *Grid
	thermal *ThermalField
	life    *LifecycleEngine
	repro   *ReproductionScheduler
}

func newTestSystems(t *testing.T, w, h int) *testSystems {
	t.Helper()
	cfg := testConfig(t, w, h)
	thermal := NewThermalField(cfg.Thermal)
	life := NewLifecycleEngine(cfg, thermal)
	return &testSystems{
		cfg:     cfg,
		grid:    NewGrid(w, h),
		thermal: thermal,
		life:    life,
		repro:   NewReproductionScheduler(cfg, life),
	}
}

// daisy builds an organism with a neutral genome.
func daisy(color components.Color, age int, nutrients float64) components.Organism {
	return components.Organism{
		Genome:    genetics.Genome{0.5, 0.5, 0.5, 0.5, 0.5},
		Color:     color,
		Age:       age,
		Nutrients: nutrients,
		OptTemp:   22.5,
	}
}

// checkCensus fails the test if the incremental census disagrees with a
// direct count of organism components.
func checkCensus(t *testing.T, g *Grid) {
	t.Helper()
	if got, want := g.Census(), g.Recount(); got != want {
		t.Fatalf("census %+v disagrees with recount %+v", got, want)
	}
	occupied := 0
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			if g.Occupied(x, y) {
				occupied++
			}
		}
	}
	if g.Census().Total() != occupied {
		t.Fatalf("census total %d, occupied cells %d", g.Census().Total(), occupied)
	}
}
