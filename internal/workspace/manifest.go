package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusTruncated = "truncated"
	StatusFailed    = "failed"
)

// ManifestFile is the manifest's name inside the output directory.
const ManifestFile = "manifest.json"

// Manifest records one extraction run.
type Manifest struct {
	RunID      string    `json:"run_id"`
	Dir        string    `json:"dir"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Truncated  string    `json:"truncated_path,omitempty"`
	Error      string    `json:"error,omitempty"`
	Entries    []Entry   `json:"entries"`
}

// NewManifest starts a running manifest with a fresh run ID.
func NewManifest() *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
		Entries:   []Entry{},
	}
}

// Add appends an entry.
func (m *Manifest) Add(e Entry) {
	m.Entries = append(m.Entries, e)
}

// Written returns the entries that were written to disk.
func (m *Manifest) Written() []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Skipped == "" {
			out = append(out, e)
		}
	}
	return out
}

// Finish stamps the final status.
func (m *Manifest) Finish(status string) {
	m.Status = status
	m.FinishedAt = time.Now().UTC()
}

// Duration is the wall time of the run, or the time so far while running.
func (m *Manifest) Duration() time.Duration {
	if m.FinishedAt.IsZero() {
		return time.Since(m.StartedAt)
	}
	return m.FinishedAt.Sub(m.StartedAt)
}

// Save writes the manifest into dir atomically.
func (m *Manifest) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, ManifestFile), append(data, '\n'), 0644)
}

// LoadManifest reads the manifest from dir. A missing manifest is reported
// as an error wrapping fs.ErrNotExist.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	return &m, nil
}

// FormatDuration renders d as "Xm YYs".
func FormatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %02ds", m, s)
}
