package world

import (
	"log/slog"

	"github.com/pthm-cable/daisyworld/components"
	"github.com/pthm-cable/daisyworld/telemetry"
)

// writeCycle appends a cycle record to the CSV output, if enabled.
func (w *World) writeCycle(stats telemetry.CycleStats) {
	if err := w.output.WriteCycle(stats); err != nil {
		slog.Error("failed to write cycle stats", "error", err)
	}
}

// flushTelemetry logs and writes a finished luminosity step and handles
// bookmarks.
func (w *World) flushTelemetry(stats telemetry.LuminosityStats) {
	perfStats := w.perf.Stats()

	if w.logStats {
		stats.LogStats()
		if w.perf != nil {
			perfStats.LogStats()
		}
	}

	if err := w.output.WriteLuminosity(stats); err != nil {
		slog.Error("failed to write luminosity stats", "error", err)
	}
	if w.perf != nil {
		if err := w.output.WritePerf(perfStats, stats.Step); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range w.bookmarks.Check(stats) {
		if w.logStats {
			bm.LogBookmark()
		}
		if err := w.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if w.output != nil {
			w.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the current grid state to the output directory.
func (w *World) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := w.output.WriteSnapshot(w.Snapshot(bookmark))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "step", w.step)
}

// Snapshot builds a snapshot of the current grid state. bookmark may be nil.
func (w *World) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	g := w.grid
	census := g.Census()

	// Step reports the last completed luminosity step
	step := w.step - 1
	if step < 0 {
		step = 0
	}

	snapshot := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		RNGSeed:    w.seed,
		Width:      g.W,
		Height:     g.H,
		Step:       step,
		Luminosity: w.lastLum,
		Generation: w.generation,
		Black:      census.Black,
		White:      census.White,
		Cells:      make([]telemetry.CellState, 0, g.TotalCells()),
		Bookmark:   bookmark,
	}

	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			climate := g.Climate(x, y)
			cell := telemetry.CellState{
				X:            x,
				Y:            y,
				LocalTemp:    climate.LocalTemp,
				SmoothedTemp: climate.SmoothedTemp,
			}
			if g.Occupied(x, y) {
				cell.Daisy = daisyState(g.Organism(x, y))
			}
			snapshot.Cells = append(snapshot.Cells, cell)
		}
	}

	return snapshot
}

func daisyState(org *components.Organism) *telemetry.DaisyState {
	return &telemetry.DaisyState{
		Genome:    org.Genome,
		Color:     org.Color.String(),
		Age:       org.Age,
		Nutrients: org.Nutrients,
		OptTemp:   org.OptTemp,
	}
}
