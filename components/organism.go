package components

import "github.com/pthm-cable/daisyworld/genetics"

// Color is the expressed pigment of a daisy.
type Color = genetics.Color

const (
	Black = genetics.Black
	White = genetics.White
)

// Organism is a daisy living on a cell.
type Organism struct {
	Genome    genetics.Genome
	Color     Color
	Age       int
	Nutrients float64
	OptTemp   float64 // temperature of maximal growth, fixed at expression time
}

// Mature reports whether the daisy may reproduce this cycle.
func (o *Organism) Mature(maturityAge int, threshold float64) bool {
	return o.Age > maturityAge && o.Nutrients > threshold
}
