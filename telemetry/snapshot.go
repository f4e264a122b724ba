package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/daisyworld/genetics"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete grid state at the end of a luminosity step.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Step       int     `json:"step"`
	Luminosity float64 `json:"luminosity"`
	Generation int     `json:"generation"`
	Black      int     `json:"black"`
	White      int     `json:"white"`

	// Cells in storage order (x-major)
	Cells []CellState `json:"cells"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// CellState holds one cell's temperatures and its daisy, if any.
type CellState struct {
	X            int         `json:"x"`
	Y            int         `json:"y"`
	LocalTemp    float64     `json:"local_temp"`
	SmoothedTemp float64     `json:"smoothed_temp"`
	Daisy        *DaisyState `json:"daisy,omitempty"`
}

// DaisyState holds one daisy's complete state.
type DaisyState struct {
	Genome    genetics.Genome `json:"genome"`
	Color     string          `json:"color"`
	Age       int             `json:"age"`
	Nutrients float64         `json:"nutrients"`
	OptTemp   float64         `json:"opt_temp"`
}

// Occupied counts the cells holding a daisy.
func (s *Snapshot) Occupied() int {
	n := 0
	for i := range s.Cells {
		if s.Cells[i].Daisy != nil {
			n++
		}
	}
	return n
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Step)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Step, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
