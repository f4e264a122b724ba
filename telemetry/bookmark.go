package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/daisyworld/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBlackExtinct    BookmarkType = "black_extinct"
	BookmarkWhiteExtinct    BookmarkType = "white_extinct"
	BookmarkBarren          BookmarkType = "barren"
	BookmarkDominanceFlip   BookmarkType = "dominance_flip"
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkHomeostasis     BookmarkType = "homeostasis"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Step        int          `csv:"step" json:"step"`
	Luminosity  float64      `csv:"luminosity" json:"luminosity"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"step", b.Step,
		"luminosity", b.Luminosity,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments across luminosity steps.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []LuminosityStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	homeostaticSteps int // consecutive steps with temperature inside the band
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 2 {
		historySize = 2
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]LuminosityStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats LuminosityStats) []Bookmark {
	var bookmarks []Bookmark

	if prev, ok := bd.previous(); ok {
		bookmarks = append(bookmarks, bd.checkExtinction(prev, stats)...)

		if b := bd.checkDominanceFlip(prev, stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		if b := bd.checkPopulationCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	if b := bd.checkHomeostasis(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats LuminosityStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []LuminosityStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) previous() (LuminosityStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return LuminosityStats{}, false
	}
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx], true
}

func (bd *BookmarkDetector) checkExtinction(prev, stats LuminosityStats) []Bookmark {
	var out []Bookmark
	if prev.Black > 0 && stats.Black == 0 {
		out = append(out, Bookmark{
			Type:        BookmarkBlackExtinct,
			Step:        stats.Step,
			Luminosity:  stats.Luminosity,
			Description: fmt.Sprintf("Black daisies died out at %.1f°C (%d before)", stats.AvgTemp, prev.Black),
		})
	}
	if prev.White > 0 && stats.White == 0 {
		out = append(out, Bookmark{
			Type:        BookmarkWhiteExtinct,
			Step:        stats.Step,
			Luminosity:  stats.Luminosity,
			Description: fmt.Sprintf("White daisies died out at %.1f°C (%d before)", stats.AvgTemp, prev.White),
		})
	}
	if prev.Total() > 0 && stats.Total() == 0 {
		out = append(out, Bookmark{
			Type:        BookmarkBarren,
			Step:        stats.Step,
			Luminosity:  stats.Luminosity,
			Description: fmt.Sprintf("Planet is barren at %.1f°C", stats.AvgTemp),
		})
	}
	return out
}

// checkDominanceFlip fires when the majority colour changes. Steps where
// the two colours are tied do not count as a majority.
func (bd *BookmarkDetector) checkDominanceFlip(prev, stats LuminosityStats) *Bookmark {
	before := sign(prev.Black - prev.White)
	after := sign(stats.Black - stats.White)
	if before == 0 || after == 0 || before == after {
		return nil
	}

	leader := "white"
	if after > 0 {
		leader = "black"
	}
	return &Bookmark{
		Type:        BookmarkDominanceFlip,
		Step:        stats.Step,
		Luminosity:  stats.Luminosity,
		Description: fmt.Sprintf("%s daisies took over (%d black, %d white)", leader, stats.Black, stats.White),
	}
}

func (bd *BookmarkDetector) checkPopulationCrash(stats LuminosityStats) *Bookmark {
	peak := 0
	for _, h := range bd.getHistory() {
		if h.Total() > peak {
			peak = h.Total()
		}
	}
	if peak == 0 {
		return nil
	}

	total := stats.Total()
	dropPercent := 1.0 - float64(total)/float64(peak)
	if dropPercent <= bd.cfg.PopulationCrash.DropPercent || peak-total < bd.cfg.PopulationCrash.MinDrop {
		return nil
	}

	// Forget the old peak so one crash fires once
	bd.historyIdx = 0
	bd.historyFull = false

	return &Bookmark{
		Type:        BookmarkPopulationCrash,
		Step:        stats.Step,
		Luminosity:  stats.Luminosity,
		Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", dropPercent*100, peak, total),
	}
}

// checkHomeostasis fires once when the temperature has stayed inside the
// habitable band for MinSteps consecutive steps, and rearms after leaving it.
func (bd *BookmarkDetector) checkHomeostasis(stats LuminosityStats) *Bookmark {
	h := bd.cfg.Homeostasis
	if stats.Total() == 0 || stats.AvgTemp < h.MinTemp || stats.AvgTemp > h.MaxTemp {
		bd.homeostaticSteps = 0
		return nil
	}

	bd.homeostaticSteps++
	if bd.homeostaticSteps != h.MinSteps {
		return nil
	}

	return &Bookmark{
		Type:        BookmarkHomeostasis,
		Step:        stats.Step,
		Luminosity:  stats.Luminosity,
		Description: fmt.Sprintf("Temperature held within %.0f-%.0f°C for %d steps", h.MinTemp, h.MaxTemp, h.MinSteps),
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
