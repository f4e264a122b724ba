// Package systems provides the per-cycle simulation systems and the cell grid
// they operate on.
package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/daisyworld/components"
)

// Census counts living daisies by colour.
type Census struct {
	Black int
	White int
}

// Total returns the number of living daisies.
func (c Census) Total() int {
	return c.Black + c.White
}

func (c *Census) add(col components.Color, delta int) {
	if col == components.Black {
		c.Black += delta
	} else {
		c.White += delta
	}
}

// Grid stores one ECS entity per cell and owns the colour census.
// All occupancy changes go through Place and Clear so the census stays exact.
//
// Cells are stored x-major (index = x*H + y), which is also the scan order
// used by the simulation.
type Grid struct {
	W, H int

	world *ecs.World
	cells []ecs.Entity

	cellMapper *ecs.Map2[components.GridPos, components.Climate]
	posMap     *ecs.Map[components.GridPos]
	climateMap *ecs.Map[components.Climate]
	orgMap     *ecs.Map[components.Organism]
	orgFilter  *ecs.Filter2[components.GridPos, components.Organism]

	census Census
}

// NewGrid creates a w*h grid of bare ground cells.
func NewGrid(w, h int) *Grid {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("systems: invalid grid size %dx%d", w, h))
	}
	world := ecs.NewWorld()

	g := &Grid{
		W:          w,
		H:          h,
		world:      world,
		cells:      make([]ecs.Entity, w*h),
		cellMapper: ecs.NewMap2[components.GridPos, components.Climate](world),
		posMap:     ecs.NewMap[components.GridPos](world),
		climateMap: ecs.NewMap[components.Climate](world),
		orgMap:     ecs.NewMap[components.Organism](world),
		orgFilter:  ecs.NewFilter2[components.GridPos, components.Organism](world),
	}

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			pos := components.GridPos{X: x, Y: y}
			climate := components.Climate{}
			g.cells[g.Index(x, y)] = g.cellMapper.NewEntity(&pos, &climate)
		}
	}
	return g
}

// TotalCells returns W*H.
func (g *Grid) TotalCells() int {
	return g.W * g.H
}

// Contains reports whether (x, y) lies on the grid.
func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Index returns the storage index for (x, y).
func (g *Grid) Index(x, y int) int {
	return x*g.H + y
}

// Entity returns the cell entity at (x, y).
func (g *Grid) Entity(x, y int) ecs.Entity {
	return g.cells[g.Index(x, y)]
}

// Climate returns the temperatures of the cell at (x, y).
// The pointer is only valid until the next Place or Clear.
func (g *Grid) Climate(x, y int) *components.Climate {
	return g.climateMap.Get(g.Entity(x, y))
}

// Occupied reports whether a daisy lives at (x, y).
func (g *Grid) Occupied(x, y int) bool {
	return g.orgMap.Has(g.Entity(x, y))
}

// Organism returns the daisy at (x, y). It panics on bare ground: callers
// must check Occupied first.
// The pointer is only valid until the next Place or Clear.
func (g *Grid) Organism(x, y int) *components.Organism {
	e := g.Entity(x, y)
	if !g.orgMap.Has(e) {
		panic(fmt.Sprintf("systems: no organism at (%d, %d)", x, y))
	}
	return g.orgMap.Get(e)
}

// Place puts a daisy on an empty cell and counts it. It panics if the cell
// is already occupied.
func (g *Grid) Place(x, y int, org components.Organism) {
	e := g.Entity(x, y)
	if g.orgMap.Has(e) {
		panic(fmt.Sprintf("systems: cell (%d, %d) already occupied", x, y))
	}
	g.orgMap.Add(e, &org)
	g.census.add(org.Color, 1)
}

// Clear removes the daisy at (x, y), reverting the cell to bare ground, and
// returns its final state. It panics on bare ground.
func (g *Grid) Clear(x, y int) components.Organism {
	e := g.Entity(x, y)
	if !g.orgMap.Has(e) {
		panic(fmt.Sprintf("systems: no organism to clear at (%d, %d)", x, y))
	}
	org := *g.orgMap.Get(e)
	g.orgMap.Remove(e)
	g.census.add(org.Color, -1)
	return org
}

// Census returns the incrementally maintained colour counts.
func (g *Grid) Census() Census {
	return g.census
}

// Recount counts daisies by querying the ECS world directly.
// It must always agree with Census.
func (g *Grid) Recount() Census {
	var c Census
	query := g.orgFilter.Query()
	for query.Next() {
		_, org := query.Get()
		c.add(org.Color, 1)
	}
	return c
}

// EachOrganism calls fn for every living daisy in storage order.
// fn must not call Place or Clear.
func (g *Grid) EachOrganism(fn func(pos components.GridPos, org *components.Organism)) {
	query := g.orgFilter.Query()
	for query.Next() {
		pos, org := query.Get()
		fn(*pos, org)
	}
}
