package telemetry

// Series holds the aligned per-luminosity output of a run. Entry i of every
// slice describes Luminosity[i].
type Series struct {
	Luminosity []float64
	AvgTemp    []float64
	AvgAlbedo  []float64
	Black      []int
	White      []int
}

// NewSeries allocates a series with room for n luminosity steps.
func NewSeries(n int) *Series {
	return &Series{
		Luminosity: make([]float64, 0, n),
		AvgTemp:    make([]float64, 0, n),
		AvgAlbedo:  make([]float64, 0, n),
		Black:      make([]int, 0, n),
		White:      make([]int, 0, n),
	}
}

// Append adds one luminosity step.
func (s *Series) Append(stats LuminosityStats) {
	s.Luminosity = append(s.Luminosity, stats.Luminosity)
	s.AvgTemp = append(s.AvgTemp, stats.AvgTemp)
	s.AvgAlbedo = append(s.AvgAlbedo, stats.AvgAlbedo)
	s.Black = append(s.Black, stats.Black)
	s.White = append(s.White, stats.White)
}

// Len returns the number of recorded steps.
func (s *Series) Len() int {
	return len(s.Luminosity)
}

// HabitableRange returns the first and last luminosity of the longest run of
// consecutive steps with living daisies and an average temperature inside
// [minTemp, maxTemp]. ok is false when no step qualifies.
func (s *Series) HabitableRange(minTemp, maxTemp float64) (lo, hi float64, ok bool) {
	bestLen, runStart := 0, -1
	for i := 0; i <= s.Len(); i++ {
		inside := i < s.Len() &&
			s.Black[i]+s.White[i] > 0 &&
			s.AvgTemp[i] >= minTemp && s.AvgTemp[i] <= maxTemp
		if inside {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			if n := i - runStart; n > bestLen {
				bestLen = n
				lo, hi = s.Luminosity[runStart], s.Luminosity[i-1]
			}
			runStart = -1
		}
	}
	return lo, hi, bestLen > 0
}
