package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/aneurisk/internal/clean"
	"github.com/Veraticus/aneurisk/internal/derive"
)

// ManifestName is the file name of the manifest inside the output directory.
const ManifestName = "manifest.json"

// RowCounts tracks the record count after each row-changing stage.
type RowCounts struct {
	Loaded  int `json:"loaded"`
	Cleaned int `json:"cleaned"`
	Scored  int `json:"scored"`
}

// Manifest records what one run read, changed and wrote.
type Manifest struct {
	StartedAt    time.Time           `json:"started_at"`
	FinishedAt   time.Time           `json:"finished_at"`
	RunID        string              `json:"run_id"`
	Input        string              `json:"input"`
	OutputDir    string              `json:"output_dir"`
	OnUnresolved string              `json:"on_unresolved"`
	Operations   []clean.Operation   `json:"operations"`
	Unresolved   []derive.Unresolved `json:"unresolved"`
	Files        []string            `json:"files"`
	Rows         RowCounts           `json:"rows"`
}

// Save writes the manifest as indented JSON.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}
