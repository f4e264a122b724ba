package genetics

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomGenomeIsValid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		g := Random(rng)
		if !g.Valid() {
			t.Fatalf("Random produced invalid genome %v", g)
		}
		for _, a := range g {
			// Alleles must sit on the 0.1 lattice.
			if scaled := a * 10; math.Abs(scaled-math.Round(scaled)) > 1e-9 {
				t.Fatalf("allele %v is not a multiple of 0.1", a)
			}
		}
	}
}

func TestBlackProbability(t *testing.T) {
	tests := []struct {
		name string
		g    Genome
		want float64
	}{
		{"equal weights", Genome{0.5, 0.5, 0.1, 0.1, 0.1}, 0.5},
		{"black heavy", Genome{0.9, 0.1, 0.1, 0.1, 0.1}, 0.9},
		{"white heavy", Genome{0.1, 0.3, 0.1, 0.1, 0.1}, 0.25},
		{"degenerate", Genome{0, 0, 0, 0, 0}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BlackProbability(tt.g); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("BlackProbability(%v) = %v, want %v", tt.g, got, tt.want)
			}
		})
	}
}

func TestExpressColorFrequency(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := Genome{0.9, 0.1, 0.5, 0.5, 0.5}

	const n = 20000
	black := 0
	for i := 0; i < n; i++ {
		if ExpressColor(rng, g) == Black {
			black++
		}
	}
	frac := float64(black) / n
	if math.Abs(frac-0.9) > 0.02 {
		t.Errorf("black fraction = %.3f, want ~0.9", frac)
	}
}

func TestExpressOptimalTemp(t *testing.T) {
	tests := []struct {
		name   string
		g      Genome
		albedo float64
		local  float64
		want   float64
	}{
		// 20*(0.25+0.7)=19 vs 20*(0.25+0.3)=11: A is closer.
		{"first allele closer", Genome{0.5, 0.5, 0.5, 0.7, 0.3}, 0.25, 20, 19},
		// 20*(0.75+0.1)=17 vs 20*(0.75+0.3)=21: B is closer.
		{"second allele closer", Genome{0.5, 0.5, 0.5, 0.1, 0.3}, 0.75, 20, 21},
		// Equal distance picks B.
		{"tie goes to second", Genome{0.5, 0.5, 0.5, 0.6, 0.6}, 0.25, 10, 8.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpressOptimalTemp(tt.g, tt.albedo, tt.local)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ExpressOptimalTemp = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCrossoverBoundaries(t *testing.T) {
	self := Genome{0.1, 0.2, 0.3, 0.4, 0.5}
	partner := Genome{0.6, 0.7, 0.8, 0.9, 1.0}

	if got := CrossoverAt(self, partner, GenomeLength); got != partner {
		t.Errorf("point=len: got %v, want partner %v", got, partner)
	}

	// Index 0 satisfies 0 <= 0, so it comes from partner; the rest from self.
	want := Genome{0.6, 0.2, 0.3, 0.4, 0.5}
	if got := CrossoverAt(self, partner, 0); got != want {
		t.Errorf("point=0: got %v, want %v", got, want)
	}

	want = Genome{0.6, 0.7, 0.8, 0.4, 0.5}
	if got := CrossoverAt(self, partner, 2); got != want {
		t.Errorf("point=2: got %v, want %v", got, want)
	}
}

func TestCrossoverDrawsWithinRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	self := Genome{0.1, 0.1, 0.1, 0.1, 0.1}
	partner := Genome{1, 1, 1, 1, 1}

	for i := 0; i < 500; i++ {
		child := Crossover(rng, self, partner)
		if child[0] != 1 {
			t.Fatalf("allele 0 must always come from partner, got %v", child)
		}
		// Partner alleles form a prefix.
		seenSelf := false
		for _, a := range child {
			if a == 0.1 {
				seenSelf = true
			} else if seenSelf {
				t.Fatalf("partner allele after self allele in %v", child)
			}
		}
	}
}

func TestMutateRates(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	orig := Genome{0.1, 0.2, 0.3, 0.4, 0.5}

	g := orig
	if fired := Mutate(rng, &g, 0); fired != 0 || g != orig {
		t.Errorf("rate 0 changed genome: fired=%d genome=%v", fired, g)
	}

	g = orig
	if fired := Mutate(rng, &g, 1); fired != GenomeLength {
		t.Errorf("rate 1 fired %d times, want %d", fired, GenomeLength)
	}
	if !g.Valid() {
		t.Errorf("mutated genome invalid: %v", g)
	}
}

func TestMutatorUsesConfiguredRates(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	m := Mutator{Low: 0, High: 1}
	orig := Genome{0.1, 0.2, 0.3, 0.4, 0.5}

	g := orig
	if m.MutateLow(rng, &g) != 0 || g != orig {
		t.Error("MutateLow with rate 0 should leave genome unchanged")
	}
	if m.MutateHigh(rng, &g) != GenomeLength {
		t.Error("MutateHigh with rate 1 should replace every allele")
	}

	d := DefaultMutator()
	if d.Low != 0.01 || d.High != 0.05 {
		t.Errorf("DefaultMutator = %+v, want {0.01 0.05}", d)
	}
}

func TestColorString(t *testing.T) {
	if Black.String() != "black" || White.String() != "white" {
		t.Errorf("unexpected color names %q %q", Black, White)
	}
}
