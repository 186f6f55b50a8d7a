package study

import (
	"sort"

	"toypal/domain/core"
)

// Dataset is the canonical, cleaned table every statistical query reads.
// It is immutable after construction: queries take value slices out of it
// but never write back.
type Dataset struct {
	rows    []SessionRecord
	columns map[core.ColumnKey]bool
}

// NewDataset builds a dataset from normalized records. columns is the set of
// canonical columns the source actually carried; queries use it to degrade
// to an insufficient-data verdict when a required column never existed.
func NewDataset(rows []SessionRecord, columns map[core.ColumnKey]bool) *Dataset {
	if columns == nil {
		columns = map[core.ColumnKey]bool{}
	}
	return &Dataset{rows: rows, columns: columns}
}

// Len returns the number of session records.
func (d *Dataset) Len() int { return len(d.rows) }

// Rows returns the underlying records. Callers must treat the slice as
// read-only.
func (d *Dataset) Rows() []SessionRecord { return d.rows }

// Columns returns the set of canonical columns the source carried. Callers
// must treat the map as read-only.
func (d *Dataset) Columns() map[core.ColumnKey]bool { return d.columns }

// HasColumn reports whether the source carried the canonical column.
func (d *Dataset) HasColumn(keys ...core.ColumnKey) bool {
	for _, k := range keys {
		if !d.columns[k] {
			return false
		}
	}
	return true
}

// Column returns every finite value in the column, in row order.
func (d *Dataset) Column(key core.ColumnKey) []float64 {
	out := make([]float64, 0, len(d.rows))
	for _, r := range d.rows {
		if r.HasScore(key) {
			out = append(out, r.Score(key))
		}
	}
	return out
}

// Paired returns aligned slices for two columns, dropping any row where
// either value is missing.
func (d *Dataset) Paired(x, y core.ColumnKey) (xs, ys []float64) {
	for _, r := range d.rows {
		if r.HasScore(x) && r.HasScore(y) {
			xs = append(xs, r.Score(x))
			ys = append(ys, r.Score(y))
		}
	}
	return xs, ys
}

// SessionPaired returns aligned (session_number, value) slices for a column,
// dropping rows where the value is missing.
func (d *Dataset) SessionPaired(y core.ColumnKey) (sessions, ys []float64) {
	for _, r := range d.rows {
		if r.HasScore(y) {
			sessions = append(sessions, float64(r.SessionNumber))
			ys = append(ys, r.Score(y))
		}
	}
	return sessions, ys
}

// Participants returns the distinct participant IDs in first-appearance
// order. The order is stable across runs so every cohort-level derivation is
// deterministic.
func (d *Dataset) Participants() []core.ParticipantID {
	seen := map[core.ParticipantID]bool{}
	var out []core.ParticipantID
	for _, r := range d.rows {
		if !seen[r.ParticipantID] {
			seen[r.ParticipantID] = true
			out = append(out, r.ParticipantID)
		}
	}
	return out
}

// ParticipantRows returns one participant's records ordered by session
// number (stable for equal sessions, e.g. multiple raters).
func (d *Dataset) ParticipantRows(pid core.ParticipantID) []SessionRecord {
	var out []SessionRecord
	for _, r := range d.rows {
		if r.ParticipantID == pid {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SessionNumber < out[j].SessionNumber
	})
	return out
}

// MinSession and MaxSession return the observed session-number bounds.
// Both return 0 on an empty dataset.
func (d *Dataset) MinSession() int {
	if len(d.rows) == 0 {
		return 0
	}
	min := d.rows[0].SessionNumber
	for _, r := range d.rows[1:] {
		if r.SessionNumber < min {
			min = r.SessionNumber
		}
	}
	return min
}

func (d *Dataset) MaxSession() int {
	if len(d.rows) == 0 {
		return 0
	}
	max := d.rows[0].SessionNumber
	for _, r := range d.rows[1:] {
		if r.SessionNumber > max {
			max = r.SessionNumber
		}
	}
	return max
}

// Select returns the records matching the predicate, in row order.
func (d *Dataset) Select(pred func(SessionRecord) bool) []SessionRecord {
	var out []SessionRecord
	for _, r := range d.rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// SplitByCut partitions a target column's finite values into high (split
// column >= cut) and low (< cut) groups. Rows missing either value are
// excluded from both groups.
func (d *Dataset) SplitByCut(split core.ColumnKey, cut float64, target core.ColumnKey) (high, low []float64) {
	for _, r := range d.rows {
		if !r.HasScore(split) || !r.HasScore(target) {
			continue
		}
		if r.Score(split) >= cut {
			high = append(high, r.Score(target))
		} else {
			low = append(low, r.Score(target))
		}
	}
	return high, low
}
