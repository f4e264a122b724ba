package systems

import "math"

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// abs returns the absolute value of an int.
func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// distance returns the Euclidean distance between two grid cells.
func distance(x1, y1, x2, y2 int) float64 {
	dx := float64(x1 - x2)
	dy := float64(y1 - y2)
	return math.Sqrt(dx*dx + dy*dy)
}

// floorDiv2 halves v rounding towards negative infinity.
func floorDiv2(v int) int {
	return int(math.Floor(float64(v) / 2))
}
