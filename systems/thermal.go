package systems

import (
	"math"

	"github.com/pthm-cable/daisyworld/components"
	"github.com/pthm-cable/daisyworld/config"
)

// Physical constants.
const (
	AbsoluteZeroC = 273.15 // offset from Kelvin to Celsius
)

// ThermalField computes planetary albedo and per-cell temperatures.
type ThermalField struct {
	flux           float64
	sigma          float64
	heatAbsorption float64

	albedoBlack  float64
	albedoWhite  float64
	albedoGround float64

	solarPeak float64
	solarDrop float64
}

// NewThermalField creates a thermal field from config.
func NewThermalField(cfg config.ThermalConfig) *ThermalField {
	return &ThermalField{
		flux:           cfg.Flux,
		sigma:          cfg.StefanBoltzmann,
		heatAbsorption: cfg.HeatAbsorption,
		albedoBlack:    cfg.AlbedoBlack,
		albedoWhite:    cfg.AlbedoWhite,
		albedoGround:   cfg.AlbedoGround,
		solarPeak:      cfg.SolarPeak,
		solarDrop:      cfg.SolarDrop,
	}
}

// ColorAlbedo returns the reflectivity of a pigment.
func (t *ThermalField) ColorAlbedo(c components.Color) float64 {
	if c == components.Black {
		return t.albedoBlack
	}
	return t.albedoWhite
}

// GroundAlbedo returns the reflectivity of bare ground.
func (t *ThermalField) GroundAlbedo() float64 {
	return t.albedoGround
}

// CellAlbedo returns the reflectivity of the cell at (x, y).
func (t *ThermalField) CellAlbedo(g *Grid, x, y int) float64 {
	if !g.Occupied(x, y) {
		return t.albedoGround
	}
	return t.ColorAlbedo(g.Organism(x, y).Color)
}

// AverageAlbedo weights each surface albedo by its fractional coverage.
// The result always lies between the black and white albedos.
func (t *ThermalField) AverageAlbedo(numBlack, numWhite, totalCells int) float64 {
	if totalCells <= 0 {
		return t.albedoGround
	}
	areaB := float64(numBlack) / float64(totalCells)
	areaW := float64(numWhite) / float64(totalCells)
	areaG := 1 - (areaB + areaW)
	return t.albedoBlack*areaB + t.albedoWhite*areaW + t.albedoGround*areaG
}

// SolarFactor is the latitude insolation multiplier, peaking at the equator
// (y = H/2) and falling by solarDrop at the poles, rounded to 2 decimals.
// For H = 50 this is round(1.2 - 0.00064*(y-25)^2, 2).
func (t *ThermalField) SolarFactor(y, gridHeight int) float64 {
	equator := float64(gridHeight) / 2
	if equator <= 0 {
		return roundTo(t.solarPeak, 2)
	}
	k := t.solarDrop / (equator * equator)
	d := float64(y) - equator
	return roundTo(t.solarPeak-k*d*d, 2)
}

// PlanetaryTemperature is the Stefan-Boltzmann equilibrium temperature in
// Celsius for the given insolation multiplier, luminosity and albedo.
func (t *ThermalField) PlanetaryTemperature(solar, luminosity, albedo float64) float64 {
	absorbed := solar * t.flux * luminosity * (1 - albedo)
	if absorbed <= 0 {
		return -AbsoluteZeroC
	}
	return math.Pow(absorbed/t.sigma, 0.25) - AbsoluteZeroC
}

// LocalTemperature adjusts the planetary temperature at row y by the
// difference between planetary and local albedo: darker than average warms,
// lighter cools.
func (t *ThermalField) LocalTemperature(cellAlbedo float64, y, gridHeight int, albedo, luminosity float64) float64 {
	planetary := t.PlanetaryTemperature(t.SolarFactor(y, gridHeight), luminosity, albedo)
	return t.heatAbsorption*(albedo-cellAlbedo) + planetary
}

// Heat recomputes and stores the local temperature of the cell at (x, y).
func (t *ThermalField) Heat(g *Grid, x, y int, albedo, luminosity float64) float64 {
	temp := t.LocalTemperature(t.CellAlbedo(g, x, y), y, g.H, albedo, luminosity)
	g.Climate(x, y).LocalTemp = temp
	return temp
}

// Diffuse averages the cell's local temperature with every on-grid
// neighbour's and stores the result as the smoothed temperature.
// Neighbours read whatever LocalTemp they currently hold, so cells scanned
// later in the same pass still contribute their previous value.
func (t *ThermalField) Diffuse(g *Grid, x, y int) float64 {
	climate := g.Climate(x, y)
	total := climate.LocalTemp
	n := 1
	for _, o := range NeighbourOffsets {
		nx, ny := x+o.DX, y+o.DY
		if !g.Contains(nx, ny) {
			continue
		}
		total += g.Climate(nx, ny).LocalTemp
		n++
	}
	smoothed := total / float64(n)
	climate.SmoothedTemp = smoothed
	return smoothed
}
