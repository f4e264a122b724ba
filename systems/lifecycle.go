package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/daisyworld/components"
	"github.com/pthm-cable/daisyworld/config"
	"github.com/pthm-cable/daisyworld/genetics"
)

// Outcome is the result of one lifecycle step on a cell.
type Outcome uint8

const (
	OutcomeEmpty Outcome = iota // bare ground, nothing to do
	OutcomeAlive                // daisy grew and aged
	OutcomeDead                 // daisy reached the death age and was removed
)

// GrowthRate is the parabolic growth curve 1 - c*(opt-T)^2. It is zero
// outside [opt - sqrt(1/c), opt + sqrt(1/c)], with both bounds rounded to
// one decimal.
func GrowthRate(optTemp, temp, c float64) float64 {
	if c <= 0 {
		return 1
	}
	halfWidth := math.Sqrt(1 / c)
	lo := roundTo(optTemp-halfWidth, 1)
	hi := roundTo(optTemp+halfWidth, 1)
	if temp < lo || temp > hi {
		return 0
	}
	d := optTemp - temp
	return 1 - c*d*d
}

// LifecycleEngine applies ageing, growth and death to daisies, and creates
// new ones.
type LifecycleEngine struct {
	thermal *ThermalField

	growthWidth  float64
	nutrientGain float64

	deathAge     int
	maturityAge  int
	threshold    float64
	nutrientsMin int
	nutrientsMax int
}

// NewLifecycleEngine creates a lifecycle engine from config.
func NewLifecycleEngine(cfg *config.Config, thermal *ThermalField) *LifecycleEngine {
	return &LifecycleEngine{
		thermal:      thermal,
		growthWidth:  cfg.Derived.GrowthWidth,
		nutrientGain: cfg.Growth.NutrientGain,
		deathAge:     cfg.Lifecycle.DeathAge,
		maturityAge:  cfg.Lifecycle.MaturityAge,
		threshold:    cfg.Lifecycle.ReproductionThreshold,
		nutrientsMin: cfg.Lifecycle.NutrientsMin,
		nutrientsMax: cfg.Lifecycle.NutrientsMax,
	}
}

// GrowthRate evaluates the growth curve with the configured width.
func (l *LifecycleEngine) GrowthRate(optTemp, temp float64) float64 {
	return GrowthRate(optTemp, temp, l.growthWidth)
}

// Step advances the daisy at (x, y) by one cycle. A daisy at or past the
// death age is removed and counted out of the census; otherwise it gains
// nutrientGain*growth nutrients and ages by one.
func (l *LifecycleEngine) Step(g *Grid, x, y int, growth float64) (Outcome, components.Color) {
	if !g.Occupied(x, y) {
		return OutcomeEmpty, 0
	}
	org := g.Organism(x, y)
	if org.Age >= l.deathAge {
		dead := g.Clear(x, y)
		return OutcomeDead, dead.Color
	}
	org.Nutrients += l.nutrientGain * growth
	org.Age++
	return OutcomeAlive, org.Color
}

// Mature reports whether org may reproduce.
func (l *LifecycleEngine) Mature(org *components.Organism) bool {
	return org.Mature(l.maturityAge, l.threshold)
}

// FreshNutrients draws a newborn's starting nutrient reserve.
func (l *LifecycleEngine) FreshNutrients(rng *rand.Rand) float64 {
	return float64(l.nutrientsMin + rng.Intn(l.nutrientsMax-l.nutrientsMin+1))
}

// Sprout places a new daisy with the given genome on the empty cell at
// (x, y). Colour and optimal temperature are expressed from the genome and
// the cell's current local temperature.
func (l *LifecycleEngine) Sprout(rng *rand.Rand, g *Grid, x, y int, genome genetics.Genome, age int) components.Organism {
	color := genetics.ExpressColor(rng, genome)
	local := g.Climate(x, y).LocalTemp
	org := components.Organism{
		Genome:    genome,
		Color:     color,
		Age:       age,
		Nutrients: l.FreshNutrients(rng),
		OptTemp:   genetics.ExpressOptimalTemp(genome, l.thermal.ColorAlbedo(color), local),
	}
	g.Place(x, y, org)
	return org
}
