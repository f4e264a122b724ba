// Package telemetry provides per-cycle and per-luminosity statistics,
// bookmarking, performance timing, snapshots and CSV output.
package telemetry

import "gonum.org/v1/gonum/floats"

// PhenotypeSample holds per-cell and per-daisy values sampled at the end of a
// luminosity step.
type PhenotypeSample struct {
	Temps         []float64 // smoothed temperature of every cell
	Nutrients     []float64 // nutrients of every daisy
	BlackOptTemps []float64
	WhiteOptTemps []float64
}

// Collector accumulates the cycles of one luminosity step and produces
// LuminosityStats.
type Collector struct {
	temps   []float64
	albedos []float64

	// Event counters for the current step
	births       int
	deaths       int
	overcrowded  int
	clonalRounds int
	sexualRounds int
	mutations    int
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordCycle adds one cycle to the current step.
func (c *Collector) RecordCycle(s CycleStats) {
	c.temps = append(c.temps, s.AvgTemp)
	c.albedos = append(c.albedos, s.AvgAlbedo)
	c.births += s.Births
	c.deaths += s.Deaths
	c.overcrowded += s.Overcrowded
	c.clonalRounds += s.ClonalRounds
	c.sexualRounds += s.SexualRounds
	c.mutations += s.Mutations
}

// Cycles returns the number of cycles recorded since the last flush.
func (c *Collector) Cycles() int {
	return len(c.temps)
}

// Flush produces the LuminosityStats for the step and resets the counters.
// Temperature and albedo are averaged over the recorded cycles; the census
// and phenotype sample describe the planet after the last cycle.
func (c *Collector) Flush(step int, luminosity float64, black, white, generation int, sample PhenotypeSample) LuminosityStats {
	var avgTemp, avgAlbedo float64
	if n := len(c.temps); n > 0 {
		avgTemp = floats.Sum(c.temps) / float64(n)
		avgAlbedo = floats.Sum(c.albedos) / float64(n)
	}

	temps := Summarize(sample.Temps)

	stats := LuminosityStats{
		Step:       step,
		Luminosity: luminosity,
		Cycles:     len(c.temps),
		Generation: generation,

		AvgTemp:   avgTemp,
		AvgAlbedo: avgAlbedo,

		Black: black,
		White: white,

		Births:       c.births,
		Deaths:       c.deaths,
		Overcrowded:  c.overcrowded,
		ClonalRounds: c.clonalRounds,
		SexualRounds: c.sexualRounds,
		Mutations:    c.mutations,

		TempStd: temps.Std,
		TempP10: temps.P10,
		TempP50: temps.P50,
		TempP90: temps.P90,

		NutrientsMean:    Mean(sample.Nutrients),
		BlackOptTempMean: Mean(sample.BlackOptTemps),
		WhiteOptTempMean: Mean(sample.WhiteOptTemps),
	}

	// Reset for next step
	c.temps = c.temps[:0]
	c.albedos = c.albedos[:0]
	c.births = 0
	c.deaths = 0
	c.overcrowded = 0
	c.clonalRounds = 0
	c.sexualRounds = 0
	c.mutations = 0

	return stats
}
