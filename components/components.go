// Package components defines ECS components for the simulation.
//
// Every grid location is one entity carrying GridPos and Climate. A living
// daisy is an additional Organism component on that entity; bare ground is
// the absence of it.
package components

// GridPos is a cell's fixed grid coordinate.
type GridPos struct {
	X, Y int
}

// Climate holds the temperatures computed for a cell in the latest cycle.
type Climate struct {
	LocalTemp    float64 // radiative temperature including the local albedo correction
	SmoothedTemp float64 // LocalTemp averaged with the 8-neighbourhood
}
