package systems

import (
	"math/rand"

	"github.com/pthm-cable/daisyworld/components"
	"github.com/pthm-cable/daisyworld/config"
	"github.com/pthm-cable/daisyworld/genetics"
)

// Mode distinguishes the two reproduction paths.
type Mode uint8

const (
	ModeClonal Mode = iota
	ModeSexual
)

func (m Mode) String() string {
	if m == ModeSexual {
		return "sexual"
	}
	return "clonal"
}

// Pairing records one reproduction round.
type Pairing struct {
	Mode      Mode
	Focal     components.GridPos
	Mate      components.GridPos // equal to Focal for clonal rounds
	Center    components.GridPos // centre of the dispersal set
	Offspring int                // offspring attempted
	Births    int                // offspring placed
}

// ReproductionResult summarises one reproduction phase.
type ReproductionResult struct {
	Pairings    []Pairing
	Births      int
	Overcrowded int // offspring that found their target cell occupied
	Mutations   int // alleles replaced by mutation
}

// Rounds returns the number of reproduction rounds performed.
func (r ReproductionResult) Rounds() int {
	return len(r.Pairings)
}

// Count returns the number of rounds of the given mode.
func (r ReproductionResult) Count(mode Mode) int {
	n := 0
	for _, p := range r.Pairings {
		if p.Mode == mode {
			n++
		}
	}
	return n
}

// ReproductionScheduler pairs mature daisies and disperses their offspring.
type ReproductionScheduler struct {
	lifecycle *LifecycleEngine
	mutator   genetics.Mutator
	dispersal []Offset

	mateRadius   float64
	offspringMin int
	offspringMax int
	clonalCost   float64
	sexualCost   float64

	// Scratch buffers reused across cycles
	consumed []bool
	points   []components.GridPos
}

// NewReproductionScheduler creates a scheduler from config.
func NewReproductionScheduler(cfg *config.Config, lifecycle *LifecycleEngine) *ReproductionScheduler {
	return &ReproductionScheduler{
		lifecycle:    lifecycle,
		mutator:      genetics.Mutator{Low: cfg.Mutation.RateLow, High: cfg.Mutation.RateHigh},
		dispersal:    DiamondOffsets(cfg.Reproduction.DispersalRadius),
		mateRadius:   cfg.Reproduction.MateRadius,
		offspringMin: cfg.Reproduction.OffspringMin,
		offspringMax: cfg.Reproduction.OffspringMax,
		clonalCost:   cfg.Reproduction.ClonalCost,
		sexualCost:   cfg.Reproduction.SexualCost,
	}
}

// Update shuffles the eligible daisies, removing any positional bias from
// the scan order, and runs one reproduction phase over them.
// An empty list is a no-op.
func (s *ReproductionScheduler) Update(rng *rand.Rand, g *Grid, eligible []components.GridPos) ReproductionResult {
	if len(eligible) == 0 {
		return ReproductionResult{}
	}
	rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	return s.Process(rng, g, eligible)
}

// Process runs reproduction over queue in order. Each daisy takes part in at
// most one round: either as the focal parent or as the mate chosen by an
// earlier focal.
func (s *ReproductionScheduler) Process(rng *rand.Rand, g *Grid, queue []components.GridPos) ReproductionResult {
	var result ReproductionResult

	if cap(s.consumed) < len(queue) {
		s.consumed = make([]bool, len(queue))
	}
	consumed := s.consumed[:len(queue)]
	for i := range consumed {
		consumed[i] = false
	}

	for i, focal := range queue {
		if consumed[i] {
			continue
		}
		consumed[i] = true

		n := s.offspringCount(rng)
		j, found := s.SelectMate(g, queue, i, consumed)
		if !found {
			p := s.reproduceClonal(rng, g, focal, n, &result)
			result.Pairings = append(result.Pairings, p)
			continue
		}

		consumed[j] = true
		p := s.reproduceSexual(rng, g, focal, queue[j], n, &result)
		result.Pairings = append(result.Pairings, p)
	}

	return result
}

// SelectMate scans the unconsumed entries after queue[focal] and returns the
// index of the fittest candidate within the mate radius. Fitness is the
// candidate's nutrients divided by its distance; the first candidate wins
// ties.
func (s *ReproductionScheduler) SelectMate(g *Grid, queue []components.GridPos, focal int, consumed []bool) (int, bool) {
	f := queue[focal]
	best := -1
	bestFitness := 0.0

	for j := focal + 1; j < len(queue); j++ {
		if consumed[j] {
			continue
		}
		c := queue[j]
		dist := distance(f.X, f.Y, c.X, c.Y)
		if dist == 0 || dist > s.mateRadius {
			continue
		}
		fitness := g.Organism(c.X, c.Y).Nutrients / dist
		if fitness > bestFitness {
			bestFitness = fitness
			best = j
		}
	}

	return best, best >= 0
}

// Midpoint returns the cell halfway between a and b, rounding down.
func Midpoint(a, b components.GridPos) components.GridPos {
	return components.GridPos{X: floorDiv2(a.X + b.X), Y: floorDiv2(a.Y + b.Y)}
}

func (s *ReproductionScheduler) offspringCount(rng *rand.Rand) int {
	return s.offspringMin + rng.Intn(s.offspringMax-s.offspringMin+1)
}

// reproduceClonal disperses n copies of the focal genome around the focal
// cell, each mutated at the high rate, then charges the clonal cost.
func (s *ReproductionScheduler) reproduceClonal(rng *rand.Rand, g *Grid, focal components.GridPos, n int, result *ReproductionResult) Pairing {
	parent := g.Organism(focal.X, focal.Y).Genome

	births := s.disperse(rng, g, focal, n, result, func() genetics.Genome {
		return parent
	}, s.mutator.MutateHigh)

	g.Organism(focal.X, focal.Y).Nutrients -= s.clonalCost

	return Pairing{Mode: ModeClonal, Focal: focal, Mate: focal, Center: focal, Offspring: n, Births: births}
}

// reproduceSexual disperses n crossover children around the parents'
// midpoint, each mutated at the low rate, then charges both parents.
func (s *ReproductionScheduler) reproduceSexual(rng *rand.Rand, g *Grid, focal, mate components.GridPos, n int, result *ReproductionResult) Pairing {
	self := g.Organism(focal.X, focal.Y).Genome
	partner := g.Organism(mate.X, mate.Y).Genome
	center := Midpoint(focal, mate)

	births := s.disperse(rng, g, center, n, result, func() genetics.Genome {
		return genetics.Crossover(rng, self, partner)
	}, s.mutator.MutateLow)

	g.Organism(focal.X, focal.Y).Nutrients -= s.sexualCost
	g.Organism(mate.X, mate.Y).Nutrients -= s.sexualCost

	return Pairing{Mode: ModeSexual, Focal: focal, Mate: mate, Center: center, Offspring: n, Births: births}
}

// disperse tries to place n offspring on random cells of the dispersal set
// around center. An offspring whose cell is occupied dies of overcrowding.
func (s *ReproductionScheduler) disperse(
	rng *rand.Rand,
	g *Grid,
	center components.GridPos,
	n int,
	result *ReproductionResult,
	genome func() genetics.Genome,
	mutate func(*rand.Rand, *genetics.Genome) int,
) int {
	s.points = g.PointsAround(s.points[:0], center.X, center.Y, s.dispersal)

	births := 0
	for k := 0; k < n; k++ {
		if len(s.points) == 0 {
			result.Overcrowded++
			continue
		}
		p := s.points[rng.Intn(len(s.points))]
		if g.Occupied(p.X, p.Y) {
			result.Overcrowded++
			continue
		}
		s.lifecycle.Sprout(rng, g, p.X, p.Y, genome(), 0)
		child := g.Organism(p.X, p.Y)
		result.Mutations += mutate(rng, &child.Genome)
		births++
	}
	result.Births += births
	return births
}
