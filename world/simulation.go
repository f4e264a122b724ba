package world

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/daisyworld/components"
	"github.com/pthm-cable/daisyworld/systems"
	"github.com/pthm-cable/daisyworld/telemetry"
)

// Cycle runs one simulation cycle at luminosity lum.
//
// The planetary albedo is taken from the census at the start of the cycle.
// Every cell is then heated and smoothed in x-major order, so a cell's
// smoothed temperature mixes fresh values from cells earlier in the scan
// with last cycle's values from cells later in it. Daisies then grow, age or
// die on their smoothed temperature, and the mature ones reproduce.
//
// Heating never reads occupancy of any cell but its own, and the lifecycle
// never touches temperatures, so running the whole thermal pass before the
// whole lifecycle pass gives the same result as interleaving them per cell.
func (w *World) Cycle(lum float64) telemetry.CycleStats {
	w.perf.StartCycle()
	g := w.grid

	w.perf.StartPhase(telemetry.PhaseThermal)
	albedo := w.Albedo()
	w.temps = w.temps[:0]
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			w.thermal.Heat(g, x, y, albedo, lum)
			w.temps = append(w.temps, w.thermal.Diffuse(g, x, y))
		}
	}

	w.perf.StartPhase(telemetry.PhaseLifecycle)
	deaths := w.growAll()

	w.perf.StartPhase(telemetry.PhaseReproduction)
	res := w.repro.Update(w.rng, g, w.eligible)
	if res.Rounds() > 0 {
		w.generation++
	}
	w.totalBirths += res.Births
	w.cycle++

	w.perf.StartPhase(telemetry.PhaseTelemetry)
	census := g.Census()
	stats := telemetry.CycleStats{
		Cycle:        w.cycle,
		Step:         w.step,
		Luminosity:   lum,
		Generation:   w.generation,
		AvgTemp:      floats.Sum(w.temps) / float64(g.TotalCells()),
		AvgAlbedo:    w.Albedo(),
		Black:        census.Black,
		White:        census.White,
		Births:       res.Births,
		Deaths:       deaths,
		Overcrowded:  res.Overcrowded,
		ClonalRounds: res.Count(systems.ModeClonal),
		SexualRounds: res.Count(systems.ModeSexual),
		Mutations:    res.Mutations,
	}
	w.perf.EndCycle()

	return stats
}

// growAll applies the lifecycle step to every daisy in scan order and
// collects the mature survivors into w.eligible. Returns the number of
// deaths.
func (w *World) growAll() int {
	g := w.grid
	w.eligible = w.eligible[:0]
	deaths := 0

	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			if !g.Occupied(x, y) {
				continue
			}
			growth := w.life.GrowthRate(g.Organism(x, y).OptTemp, g.Climate(x, y).SmoothedTemp)

			outcome, _ := w.life.Step(g, x, y, growth)
			switch outcome {
			case systems.OutcomeDead:
				deaths++
			case systems.OutcomeAlive:
				if w.life.Mature(g.Organism(x, y)) {
					w.eligible = append(w.eligible, components.GridPos{X: x, Y: y})
				}
			}
		}
	}
	return deaths
}

// RunLuminosity runs the configured number of cycles at lum and records the
// step. Every cycle counts, whether or not any daisy reproduced.
func (w *World) RunLuminosity(lum float64) telemetry.LuminosityStats {
	for i := 0; i < w.cfg.Run.CyclesPerLuminosity; i++ {
		stats := w.Cycle(lum)
		w.collector.RecordCycle(stats)
		w.writeCycle(stats)
	}

	census := w.grid.Census()
	stats := w.collector.Flush(w.step, lum, census.Black, census.White, w.generation, w.samplePhenotypes())

	w.series.Append(stats)
	w.history = append(w.history, stats)
	w.lastLum = lum
	w.step++
	w.flushTelemetry(stats)

	return stats
}

// Next runs the next luminosity of the schedule. ok is false once the
// schedule is exhausted.
func (w *World) Next() (stats telemetry.LuminosityStats, ok bool) {
	if w.Done() {
		return telemetry.LuminosityStats{}, false
	}
	return w.RunLuminosity(w.cfg.Derived.Schedule[w.step]), true
}

// Run iterates the remaining luminosity schedule and returns the aligned
// output series.
func (w *World) Run() *telemetry.Series {
	for !w.Done() {
		w.Next()
	}
	return w.series
}

// samplePhenotypes collects the smoothed temperatures of the last cycle and
// the nutrients and optimal temperatures of every living daisy.
func (w *World) samplePhenotypes() telemetry.PhenotypeSample {
	sample := telemetry.PhenotypeSample{Temps: w.temps}
	w.grid.EachOrganism(func(_ components.GridPos, org *components.Organism) {
		sample.Nutrients = append(sample.Nutrients, org.Nutrients)
		if org.Color == components.Black {
			sample.BlackOptTemps = append(sample.BlackOptTemps, org.OptTemp)
		} else {
			sample.WhiteOptTemps = append(sample.WhiteOptTemps, org.OptTemp)
		}
	})
	return sample
}
