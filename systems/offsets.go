package systems

import "github.com/pthm-cable/daisyworld/components"

// Offset is a relative grid displacement.
type Offset struct {
	DX, DY int
}

// NeighbourOffsets is the 8-cell Moore neighbourhood.
var NeighbourOffsets = ringOffsets()

func ringOffsets() []Offset {
	offsets := make([]Offset, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			offsets = append(offsets, Offset{DX: dx, DY: dy})
		}
	}
	return offsets
}

// DiamondOffsets returns every offset with |dx|+|dy| <= radius, excluding
// the origin. Radius 5 gives the 60-point dispersal table.
func DiamondOffsets(radius int) []Offset {
	if radius <= 0 {
		return nil
	}
	offsets := make([]Offset, 0, 2*radius*(radius+1))
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if abs(dx)+abs(dy) <= radius {
				offsets = append(offsets, Offset{DX: dx, DY: dy})
			}
		}
	}
	return offsets
}

// PointsAround appends to dst every on-grid cell at centre+offset.
// Reuse dst across calls to avoid allocations.
func (g *Grid) PointsAround(dst []components.GridPos, x, y int, offsets []Offset) []components.GridPos {
	for _, o := range offsets {
		nx, ny := x+o.DX, y+o.DY
		if g.Contains(nx, ny) {
			dst = append(dst, components.GridPos{X: nx, Y: ny})
		}
	}
	return dst
}

