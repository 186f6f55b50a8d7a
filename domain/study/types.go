package study

import (
	"math"

	"toypal/domain/core"
)

// Rater identities. The normalizer folds single-letter shorthand onto these.
const (
	RaterParent    = "Parent"
	RaterTherapist = "Therapist"
)

// SessionRecord is one observation: a single questionnaire submission for
// one (participant, session) pair. A participant may be rated by multiple
// raters in the same session, so (ParticipantID, SessionNumber) is not a
// unique key.
type SessionRecord struct {
	ParticipantID core.ParticipantID
	SessionNumber int
	Age           float64
	Gender        string
	SubmittedBy   string // RaterParent or RaterTherapist; empty when unknown
	StoryTheme    string
	Notes         string

	// Scores holds every canonical numeric item. A missing value is NaN,
	// never a sentinel zero: the normalizer decides per column whether a bad
	// cell becomes 0 or NaN, and by the time a record exists that decision
	// has already been made.
	Scores map[core.ColumnKey]float64
}

// Score returns the value for a canonical column, or NaN when absent.
func (r SessionRecord) Score(key core.ColumnKey) float64 {
	v, ok := r.Scores[key]
	if !ok {
		return math.NaN()
	}
	return v
}

// HasScore reports whether the record carries a finite value for the column.
func (r SessionRecord) HasScore(key core.ColumnKey) bool {
	v, ok := r.Scores[key]
	return ok && !math.IsNaN(v) && !math.IsInf(v, 0)
}
