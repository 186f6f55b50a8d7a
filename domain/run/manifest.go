package run

import (
	"time"

	"toypal/domain/core"
)

// Manifest captures audit metadata for one pipeline run: what went in, what
// came out, and how long it took. Persisted alongside the gold artifacts so
// a result table can always be traced back to its run.
type Manifest struct {
	RunID          core.RunID     `json:"run_id"`
	StartedAt      core.Timestamp `json:"started_at"`
	FinishedAt     core.Timestamp `json:"finished_at"`
	SourcePath     string         `json:"source_path"`
	RawRows        int            `json:"raw_rows"`
	DroppedRows    int            `json:"dropped_rows"`
	CleanRows      int            `json:"clean_rows"`
	Participants   int            `json:"participants"`
	QueriesDefined int            `json:"queries_defined"`
	QueriesEmitted int            `json:"queries_emitted"`
}

// NewManifest starts a manifest for a fresh run.
func NewManifest(sourcePath string) *Manifest {
	return &Manifest{
		RunID:      core.RunID(core.NewID()),
		StartedAt:  core.Now(),
		SourcePath: sourcePath,
	}
}

// Finish stamps the completion time.
func (m *Manifest) Finish() {
	m.FinishedAt = core.Now()
}

// Duration returns the wall-clock run time.
func (m *Manifest) Duration() time.Duration {
	return m.FinishedAt.Time().Sub(m.StartedAt.Time())
}
