package world

import (
	"log/slog"

	"github.com/pthm-cable/daisyworld/genetics"
)

// heatBareGround sets every cell's local temperature as if the planet were
// bare ground at luminosity lum.
func (w *World) heatBareGround(lum float64) {
	albedo := w.thermal.GroundAlbedo()
	for x := 0; x < w.grid.W; x++ {
		for y := 0; y < w.grid.H; y++ {
			w.thermal.Heat(w.grid, x, y, albedo, lum)
		}
	}
}

// seedBand returns the inclusive row range daisies are seeded in.
func (w *World) seedBand() (lo, hi int) {
	h := w.grid.H
	lo = int(w.cfg.Population.BandMin * float64(h))
	hi = int(w.cfg.Population.BandMax*float64(h)) - 1
	if lo < 0 {
		lo = 0
	}
	if hi > h-1 {
		hi = h - 1
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// seedPopulation places the initial daisies on distinct random cells of the
// seeding band. Each has a random genome and age, and expresses its
// phenotype from the bare-ground temperature of its cell. A draw that lands
// on an occupied cell is redrawn, so the population never exceeds the band.
func (w *World) seedPopulation() {
	lo, hi := w.seedBand()
	capacity := w.grid.W * (hi - lo + 1)

	n := w.cfg.Population.Initial
	if n > capacity {
		slog.Warn("initial population exceeds seeding band",
			"initial", n,
			"capacity", capacity,
		)
		n = capacity
	}

	for placed := 0; placed < n; {
		x := w.rng.Intn(w.grid.W)
		y := lo + w.rng.Intn(hi-lo+1)
		if w.grid.Occupied(x, y) {
			continue
		}
		age := w.rng.Intn(w.cfg.Population.InitialAgeMax + 1)
		w.life.Sprout(w.rng, w.grid, x, y, genetics.Random(w.rng), age)
		placed++
	}
}
