package genetics

import (
	"math"
	"math/rand"
)

// BlackProbability is the chance that g expresses black pigment:
// the black weight normalised against both pigment weights.
func BlackProbability(g Genome) float64 {
	total := g[AlleleBlackWeight] + g[AlleleWhiteWeight]
	if total <= 0 {
		return 0.5
	}
	return g[AlleleBlackWeight] / total
}

// ExpressColor samples the pigment from the genome's two-way distribution
// using a single uniform draw.
func ExpressColor(rng *rand.Rand, g Genome) Color {
	if rng.Float64() < BlackProbability(g) {
		return Black
	}
	return White
}

// ExpressOptimalTemp picks whichever of the two optimal-temperature alleles,
// scaled by the pigment albedo, lands closer to the local temperature.
// Ties go to the second allele.
func ExpressOptimalTemp(g Genome, colorAlbedo, localTemp float64) float64 {
	a := localTemp * (colorAlbedo + g[AlleleOptA])
	b := localTemp * (colorAlbedo + g[AlleleOptB])
	if math.Abs(localTemp-b) > math.Abs(localTemp-a) {
		return a
	}
	return b
}
