package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CycleStats holds the state of the planet after one simulation cycle.
type CycleStats struct {
	Cycle      int     `csv:"cycle"`
	Step       int     `csv:"step"`
	Luminosity float64 `csv:"luminosity"`
	Generation int     `csv:"generation"`

	// Mean smoothed temperature over every cell
	AvgTemp float64 `csv:"avg_temp"`
	// Planetary albedo after reproduction
	AvgAlbedo float64 `csv:"avg_albedo"`

	Black int `csv:"black"`
	White int `csv:"white"`

	// Events during the cycle
	Births       int `csv:"births"`
	Deaths       int `csv:"deaths"`
	Overcrowded  int `csv:"overcrowded"`
	ClonalRounds int `csv:"clonal_rounds"`
	SexualRounds int `csv:"sexual_rounds"`
	Mutations    int `csv:"mutations"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s CycleStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("cycle", s.Cycle),
		slog.Float64("luminosity", s.Luminosity),
		slog.Float64("avg_temp", s.AvgTemp),
		slog.Float64("avg_albedo", s.AvgAlbedo),
		slog.Int("black", s.Black),
		slog.Int("white", s.White),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
	)
}

// LuminosityStats aggregates every cycle run at one luminosity value.
type LuminosityStats struct {
	Step       int     `csv:"step"`
	Luminosity float64 `csv:"luminosity"`
	Cycles     int     `csv:"cycles"`
	Generation int     `csv:"generation"`

	// Averages over the cycles of this step
	AvgTemp   float64 `csv:"avg_temp"`
	AvgAlbedo float64 `csv:"avg_albedo"`

	// Census after the last cycle
	Black int `csv:"black"`
	White int `csv:"white"`

	// Event totals over the cycles of this step
	Births       int `csv:"births"`
	Deaths       int `csv:"deaths"`
	Overcrowded  int `csv:"overcrowded"`
	ClonalRounds int `csv:"clonal_rounds"`
	SexualRounds int `csv:"sexual_rounds"`
	Mutations    int `csv:"mutations"`

	// Smoothed temperature distribution after the last cycle
	TempStd float64 `csv:"temp_std"`
	TempP10 float64 `csv:"temp_p10"`
	TempP50 float64 `csv:"temp_p50"`
	TempP90 float64 `csv:"temp_p90"`

	// Phenotypes after the last cycle
	NutrientsMean    float64 `csv:"nutrients_mean"`
	BlackOptTempMean float64 `csv:"black_opt_temp_mean"`
	WhiteOptTempMean float64 `csv:"white_opt_temp_mean"`
}

// Total returns the number of living daisies.
func (s LuminosityStats) Total() int {
	return s.Black + s.White
}

// Summary describes the distribution of a sample.
type Summary struct {
	Mean float64
	Std  float64 // population standard deviation
	P10  float64
	P50  float64
	P90  float64
}

// Summarize computes mean, standard deviation and deciles of values.
// Returns the zero Summary for an empty sample.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// Mean returns the arithmetic mean of values, or 0 for an empty sample.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s LuminosityStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", s.Step),
		slog.Float64("luminosity", s.Luminosity),
		slog.Int("cycles", s.Cycles),
		slog.Int("generation", s.Generation),
		slog.Float64("avg_temp", s.AvgTemp),
		slog.Float64("avg_albedo", s.AvgAlbedo),
		slog.Int("black", s.Black),
		slog.Int("white", s.White),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("overcrowded", s.Overcrowded),
		slog.Int("clonal_rounds", s.ClonalRounds),
		slog.Int("sexual_rounds", s.SexualRounds),
		slog.Int("mutations", s.Mutations),
		slog.Float64("temp_std", s.TempStd),
		slog.Float64("temp_p10", s.TempP10),
		slog.Float64("temp_p50", s.TempP50),
		slog.Float64("temp_p90", s.TempP90),
		slog.Float64("nutrients_mean", s.NutrientsMean),
		slog.Float64("black_opt_temp_mean", s.BlackOptTempMean),
		slog.Float64("white_opt_temp_mean", s.WhiteOptTempMean),
	)
}

// LogStats logs the luminosity step using slog.
func (s LuminosityStats) LogStats() {
	slog.Info("stats",
		"step", s.Step,
		"luminosity", s.Luminosity,
		"generation", s.Generation,
		"avg_temp", s.AvgTemp,
		"avg_albedo", s.AvgAlbedo,
		"black", s.Black,
		"white", s.White,
		"births", s.Births,
		"deaths", s.Deaths,
		"overcrowded", s.Overcrowded,
		"clonal_rounds", s.ClonalRounds,
		"sexual_rounds", s.SexualRounds,
		"temp_std", s.TempStd,
		"nutrients_mean", s.NutrientsMean,
		"black_opt_temp_mean", s.BlackOptTempMean,
		"white_opt_temp_mean", s.WhiteOptTempMean,
	)
}
