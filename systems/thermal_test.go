package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/daisyworld/components"
)

func TestAverageAlbedoBounds(t *testing.T) {
	ts := newTestSystems(t, 10, 10)
	total := 100

	for b := 0; b <= total; b += 5 {
		for w := 0; b+w <= total; w += 5 {
			a := ts.thermal.AverageAlbedo(b, w, total)
			if a < 0.25-1e-12 || a > 0.75+1e-12 {
				t.Fatalf("AverageAlbedo(%d, %d) = %v, outside [0.25, 0.75]", b, w, a)
			}
		}
	}

	if a := ts.thermal.AverageAlbedo(0, 0, total); a != 0.5 {
		t.Errorf("bare planet albedo = %v, want exactly 0.5", a)
	}
	if a := ts.thermal.AverageAlbedo(total, 0, total); math.Abs(a-0.25) > 1e-12 {
		t.Errorf("all black albedo = %v, want 0.25", a)
	}
	if a := ts.thermal.AverageAlbedo(0, total, total); math.Abs(a-0.75) > 1e-12 {
		t.Errorf("all white albedo = %v, want 0.75", a)
	}
	if a := ts.thermal.AverageAlbedo(3, 3, 0); a != 0.5 {
		t.Errorf("empty grid albedo = %v, want ground 0.5", a)
	}
}

func TestSolarFactor(t *testing.T) {
	ts := newTestSystems(t, 50, 50)

	for y := 0; y < 50; y++ {
		got := ts.thermal.SolarFactor(y, 50)
		d := float64(y - 25)
		want := math.Round((1.2-0.00064*d*d)*100) / 100
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("SolarFactor(%d, 50) = %v, want %v", y, got, want)
		}
	}

	if got := ts.thermal.SolarFactor(25, 50); got != 1.2 {
		t.Errorf("equator factor = %v, want 1.2", got)
	}
	if got := ts.thermal.SolarFactor(0, 50); got != 0.8 {
		t.Errorf("pole factor = %v, want 0.8", got)
	}
	// Smaller grids keep the same equator-to-pole range.
	if got := ts.thermal.SolarFactor(0, 10); got != 0.8 {
		t.Errorf("pole factor on 10-high grid = %v, want 0.8", got)
	}
}

func TestThermalFunctionsArePure(t *testing.T) {
	ts := newTestSystems(t, 50, 50)
	for i := 0; i < 3; i++ {
		if ts.thermal.AverageAlbedo(120, 340, 2500) != ts.thermal.AverageAlbedo(120, 340, 2500) {
			t.Fatal("AverageAlbedo is not deterministic")
		}
		if ts.thermal.SolarFactor(13, 50) != ts.thermal.SolarFactor(13, 50) {
			t.Fatal("SolarFactor is not deterministic")
		}
	}
}

func TestPlanetaryTemperature(t *testing.T) {
	ts := newTestSystems(t, 50, 50)

	// (1.2*1050*1*0.5/5.67037e-8)^0.25 - 273.15
	want := math.Pow(1.2*1050*0.5/5.67037e-8, 0.25) - 273.15
	got := ts.thermal.PlanetaryTemperature(1.2, 1.0, 0.5)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("PlanetaryTemperature = %v, want %v", got, want)
	}

	if hotter := ts.thermal.PlanetaryTemperature(1.2, 1.2, 0.5); hotter <= got {
		t.Errorf("higher luminosity should be hotter: %v <= %v", hotter, got)
	}
	if cooler := ts.thermal.PlanetaryTemperature(1.2, 1.0, 0.7); cooler >= got {
		t.Errorf("higher albedo should be cooler: %v >= %v", cooler, got)
	}
}

func TestLocalTemperatureFavoursDarkCells(t *testing.T) {
	ts := newTestSystems(t, 50, 50)
	albedo := 0.5

	black := ts.thermal.LocalTemperature(0.25, 25, 50, albedo, 1.0)
	ground := ts.thermal.LocalTemperature(0.5, 25, 50, albedo, 1.0)
	white := ts.thermal.LocalTemperature(0.75, 25, 50, albedo, 1.0)

	if !(black > ground && ground > white) {
		t.Fatalf("expected black > ground > white, got %v %v %v", black, ground, white)
	}
	// q * (0.5 - 0.25) = 5 degrees either side.
	if math.Abs(black-ground-5) > 1e-9 || math.Abs(ground-white-5) > 1e-9 {
		t.Errorf("local offsets = %v / %v, want 5 / 5", black-ground, ground-white)
	}
}

func TestHeatStoresLocalTemp(t *testing.T) {
	ts := newTestSystems(t, 5, 5)
	ts.grid.Place(2, 2, daisy(components.Black, 0, 3))

	temp := ts.thermal.Heat(ts.grid, 2, 2, 0.5, 1.0)
	if got := ts.grid.Climate(2, 2).LocalTemp; got != temp {
		t.Errorf("stored LocalTemp = %v, returned %v", got, temp)
	}
	bare := ts.thermal.Heat(ts.grid, 2, 3, 0.5, 1.0)
	if temp <= bare {
		t.Errorf("black cell %v should be warmer than bare cell %v on a similar row", temp, bare)
	}
}

func TestDiffuseDivisor(t *testing.T) {
	ts := newTestSystems(t, 3, 3)
	g := ts.grid
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			g.Climate(x, y).LocalTemp = float64(g.Index(x, y))
		}
	}

	tests := []struct {
		name string
		x, y int
		want float64
	}{
		// (0,0) sees itself plus (0,1), (1,0), (1,1): (0+1+3+4)/4
		{"corner", 0, 0, 2},
		// (1,0) sees itself plus 5 neighbours: (3+0+1+4+6+7)/6
		{"edge", 1, 0, 3.5},
		// Centre sees every cell: 36/9
		{"centre", 1, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ts.thermal.Diffuse(g, tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Diffuse(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
			if g.Climate(tt.x, tt.y).SmoothedTemp != got {
				t.Error("SmoothedTemp not stored")
			}
		})
	}
}

func TestDiffuseReadsStaleNeighboursLaterInScan(t *testing.T) {
	ts := newTestSystems(t, 1, 3)
	g := ts.grid
	for y := 0; y < 3; y++ {
		g.Climate(0, y).LocalTemp = 10
	}

	// Scan: heat then diffuse each cell in turn. Cell 0 diffuses before its
	// neighbour is reheated, so it mixes the fresh value with a stale one.
	fresh := ts.thermal.Heat(g, 0, 0, 0.5, 1.0)
	got := ts.thermal.Diffuse(g, 0, 0)
	want := (fresh + 10) / 2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Diffuse = %v, want %v (fresh self, stale neighbour)", got, want)
	}
}
