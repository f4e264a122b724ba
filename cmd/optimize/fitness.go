package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/daisyworld/config"
	"github.com/pthm-cable/daisyworld/telemetry"
	"github.com/pthm-cable/daisyworld/world"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	bestSeries  *telemetry.Series
	lastWidth   float64 // mean habitable width from the most recent Evaluate call
	lastCoexist float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestSeries returns the output series of the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestSeries() *telemetry.Series {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSeries
}

// Last returns the habitable width and coexistence score of the most recent evaluation.
func (fe *FitnessEvaluator) Last() (width, coexist float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastWidth, fe.lastCoexist
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	width   float64
	coexist float64
	series  *telemetry.Series
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run concurrently, each on its own copy of the config.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	fitness := make([]float64, len(results))
	widths := make([]float64, len(results))
	coexist := make([]float64, len(results))
	best := math.Inf(1)
	var bestSeries *telemetry.Series
	for i, r := range results {
		fitness[i] = r.fitness
		widths[i] = r.width
		coexist[i] = r.coexist
		if r.fitness < best {
			best = r.fitness
			bestSeries = r.series
		}
	}
	avgFitness := stat.Mean(fitness, nil)

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestSeries = bestSeries
	}
	fe.lastWidth = stat.Mean(widths, nil)
	fe.lastCoexist = stat.Mean(coexist, nil)
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes one full luminosity sweep for a seed.
// An invalid parameter set scores zero.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) seedResult {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		slog.Warn("rejected parameter set", "error", err)
		return seedResult{}
	}

	w, err := world.New(cfg, world.Options{Seed: seed})
	if err != nil {
		slog.Warn("failed to build world", "seed", seed, "error", err)
		return seedResult{}
	}
	series := w.Run()

	width := habitableWidth(series, cfg.Optimize)
	coexist := coexistence(series)
	return seedResult{
		fitness: computeFitness(width, coexist),
		width:   width,
		coexist: coexist,
		series:  series,
	}
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(width × (1.0 + 0.2 × coexist))
// The habitable width dominates; coexistence adds up to 20% bonus to
// differentiate runs with a similar width.
func computeFitness(width, coexist float64) float64 {
	return -(width * (1.0 + 0.2*coexist))
}

// habitableWidth is the luminosity span of the longest run of steps that
// kept daisies alive with the mean temperature inside the band.
func habitableWidth(s *telemetry.Series, band config.OptimizeConfig) float64 {
	lo, hi, ok := s.HabitableRange(band.HabitableMin, band.HabitableMax)
	if !ok {
		return 0
	}
	return hi - lo
}

// coexistence is the fraction of populated steps that held both colours.
func coexistence(s *telemetry.Series) float64 {
	var populated, both int
	for i := 0; i < s.Len(); i++ {
		if s.Black[i]+s.White[i] == 0 {
			continue
		}
		populated++
		if s.Black[i] > 0 && s.White[i] > 0 {
			both++
		}
	}
	if populated == 0 {
		return 0
	}
	return float64(both) / float64(populated)
}
