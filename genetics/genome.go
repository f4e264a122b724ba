// Package genetics implements the daisy genome: phenotype expression,
// crossover and point mutation.
package genetics

import (
	"fmt"
	"math"
	"math/rand"
)

// GenomeLength is the number of alleles per genome.
const GenomeLength = 5

// Allele roles.
const (
	AlleleBlackWeight = 0 // relative weight of the black pigment
	AlleleWhiteWeight = 1 // relative weight of the white pigment
	AlleleOptA        = 3 // first optimal-temperature allele
	AlleleOptB        = 4 // second optimal-temperature allele
)

// Allele values are drawn from {AlleleStep, 2*AlleleStep, ..., 1.0}.
const (
	AlleleStep   = 0.1
	alleleLevels = 10
)

// Genome is a fixed-length sequence of alleles in [0.1, 1.0].
// It is an array so that assignment copies it.
type Genome [GenomeLength]float64

// RandomAllele draws one allele uniformly from the ten allowed levels.
func RandomAllele(rng *rand.Rand) float64 {
	return float64(rng.Intn(alleleLevels)+1) / alleleLevels
}

// Random returns a genome with every allele drawn independently.
func Random(rng *rand.Rand) Genome {
	var g Genome
	for i := range g {
		g[i] = RandomAllele(rng)
	}
	return g
}

// Valid reports whether every allele lies in [AlleleStep, 1].
func (g Genome) Valid() bool {
	for _, a := range g {
		if math.IsNaN(a) || a < AlleleStep-1e-9 || a > 1+1e-9 {
			return false
		}
	}
	return true
}

func (g Genome) String() string {
	return fmt.Sprintf("[%.1f %.1f %.1f %.1f %.1f]", g[0], g[1], g[2], g[3], g[4])
}

// Color is the expressed pigment of a daisy.
type Color uint8

const (
	Black Color = iota
	White
)

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
}
