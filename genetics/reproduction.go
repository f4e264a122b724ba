package genetics

import "math/rand"

// Default per-allele mutation probabilities.
const (
	DefaultRateLow  = 0.01 // sexual offspring
	DefaultRateHigh = 0.05 // clonal offspring, compensating for the missing recombination
)

// CrossoverAt builds a child taking allele i from partner when i <= point and
// from self otherwise. point == GenomeLength yields partner unchanged; point
// == 0 takes only allele 0 from partner.
func CrossoverAt(self, partner Genome, point int) Genome {
	var child Genome
	for i := range child {
		if i > point {
			child[i] = self[i]
		} else {
			child[i] = partner[i]
		}
	}
	return child
}

// Crossover draws the crossover point uniformly from [0, GenomeLength].
func Crossover(rng *rand.Rand, self, partner Genome) Genome {
	return CrossoverAt(self, partner, rng.Intn(GenomeLength+1))
}

// Mutate replaces each allele with a fresh random allele with probability
// rate, returning the number of draws that fired.
func Mutate(rng *rand.Rand, g *Genome, rate float64) int {
	fired := 0
	for i := range g {
		if rng.Float64() < rate {
			g[i] = RandomAllele(rng)
			fired++
		}
	}
	return fired
}

// Mutator pairs the low (sexual) and high (clonal) mutation rates.
type Mutator struct {
	Low  float64
	High float64
}

// DefaultMutator returns the standard 1% / 5% rates.
func DefaultMutator() Mutator {
	return Mutator{Low: DefaultRateLow, High: DefaultRateHigh}
}

// MutateLow applies the sexual-offspring rate.
func (m Mutator) MutateLow(rng *rand.Rand, g *Genome) int {
	return Mutate(rng, g, m.Low)
}

// MutateHigh applies the clonal-offspring rate.
func (m Mutator) MutateHigh(rng *rand.Rand, g *Genome) int {
	return Mutate(rng, g, m.High)
}
