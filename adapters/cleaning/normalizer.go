// Package cleaning is the silver layer: it maps heterogeneous raw exports
// onto the canonical study schema. The normalizer is deliberately permissive
// about cells and strict about rows: a bad cell becomes 0 or missing per the
// column's documented rule, and the only row it ever rejects is one with no
// participant identifier.
package cleaning

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"toypal/domain/core"
	"toypal/domain/study"
	"toypal/internal"

	"toypal/adapters/excel"
)

// firstNumberPattern extracts the first numeric token from a free-text
// duration value ("120 seconds", "2 Minutes", "1.5 min").
var firstNumberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Result carries the canonical dataset plus the cleaning counters recorded
// in the run manifest.
type Result struct {
	Dataset    *study.Dataset
	RawRows    int
	Duplicates int
	Dropped    int // rows rejected for a missing participant id
	Schema     SchemaVersion
}

// Normalizer converts a raw table into the canonical dataset.
type Normalizer struct {
	log *internal.Logger
}

// NewNormalizer creates a normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{log: internal.DefaultLogger}
}

// Normalize runs the full silver transform: dedupe, schema detection,
// rename-and-coerce, unit normalization, row validation.
func (n *Normalizer) Normalize(raw *excel.RawTable) *Result {
	res := &Result{RawRows: len(raw.Rows)}

	rows := dedupe(raw.Rows)
	res.Duplicates = res.RawRows - len(rows)
	if res.Duplicates > 0 {
		n.log.Info("removed %d duplicate rows", res.Duplicates)
	}

	res.Schema = DetectSchema(raw.Headers)
	table := RenameTable(res.Schema)

	// Which canonical columns does this source carry at all? Queries use
	// this to degrade cleanly when a whole column is absent.
	present := map[core.ColumnKey]bool{}
	for _, h := range raw.Headers {
		if canonical, ok := table[h]; ok {
			present[canonical] = true
		}
	}

	var records []study.SessionRecord
	for _, r := range rows {
		rec, ok := n.normalizeRow(r, table)
		if !ok {
			res.Dropped++
			continue
		}
		records = append(records, rec)
	}

	n.log.Info("normalized %d rows (%s schema, %d dropped, %d columns)",
		len(records), res.Schema, res.Dropped, len(present))

	res.Dataset = study.NewDataset(records, present)
	return res
}

// normalizeRow maps one raw row onto a SessionRecord. Returns false only
// when the participant identifier is missing.
func (n *Normalizer) normalizeRow(raw excel.RawRow, table map[string]core.ColumnKey) (study.SessionRecord, bool) {
	canonical := map[core.ColumnKey]string{}
	for header, cell := range raw {
		if key, ok := table[header]; ok {
			canonical[key] = cell
		}
	}

	pid, err := core.ParseParticipantID(canonical[study.ColParticipantID])
	if err != nil {
		return study.SessionRecord{}, false
	}

	rec := study.SessionRecord{
		ParticipantID: pid,
		SessionNumber: int(coerceNumeric(canonical[study.ColSessionNumber])),
		Age:           coerceNumeric(canonical[study.ColAge]),
		Gender:        canonical[study.ColGender],
		SubmittedBy:   normalizeRater(canonical[study.ColSubmittedBy]),
		StoryTheme:    canonical[study.ColStoryTheme],
		Notes:         canonical[study.ColNotes],
		Scores:        make(map[core.ColumnKey]float64, len(study.ScoreColumns)),
	}

	for _, col := range study.ScoreColumns {
		cell, ok := canonical[col]
		if !ok {
			continue // column absent from this source entirely
		}
		switch col {
		case study.ColResponseTime:
			// Duration fields may be missing, never zero-filled: aggregate
			// functions must be able to exclude them.
			rec.Scores[col] = ParseDurationSeconds(cell)
		case study.ColSuccessRate:
			rec.Scores[col] = ParsePercentage(cell)
		default:
			rec.Scores[col] = coerceNumeric(cell)
		}
	}

	return rec, true
}

// ParseDurationSeconds normalizes a mixed free-text duration to seconds.
// The first numeric token is extracted; a minute-unit marker anywhere in the
// text multiplies it by 60, otherwise the number is taken as seconds
// already. No extractable number yields NaN, not zero.
func ParseDurationSeconds(s string) float64 {
	token := firstNumberPattern.FindString(s)
	if token == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return math.NaN()
	}
	if strings.Contains(strings.ToLower(s), "min") {
		v *= 60
	}
	return v
}

// ParsePercentage strips a trailing percent sign and surrounding whitespace
// then parses as float. Unparsable values yield NaN.
func ParsePercentage(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// coerceNumeric parses a score cell, substituting 0 on failure so a single
// bad cell never drops a row or poisons a whole-row aggregate.
func coerceNumeric(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// normalizeRater folds the historical single-letter rater codes into the
// canonical labels.
func normalizeRater(s string) string {
	switch strings.TrimSpace(s) {
	case "P", "p", study.RaterParent:
		return study.RaterParent
	case "T", "t", study.RaterTherapist:
		return study.RaterTherapist
	default:
		return strings.TrimSpace(s)
	}
}

// dedupe removes exact duplicate rows, preserving first occurrence order.
func dedupe(rows []excel.RawRow) []excel.RawRow {
	seen := map[string]bool{}
	out := make([]excel.RawRow, 0, len(rows))
	for _, r := range rows {
		key := fingerprint(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// fingerprint builds a deterministic key over all cells of a row.
func fingerprint(r excel.RawRow) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(r[k])
		b.WriteByte('\x1f')
	}
	return b.String()
}
