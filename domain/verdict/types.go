package verdict

import "toypal/domain/core"

// Group is the thematic category of a query. Purely descriptive; it never
// changes how a query runs.
type Group string

const (
	GroupEfficiency  Group = "Efficiency"
	GroupDrivers     Group = "Drivers"
	GroupMechanisms  Group = "Mechanisms"
	GroupPredictions Group = "Predictions"
)

// Shared verdict labels. Query-specific labels (e.g. "Positive Driver") live
// with the query that emits them; these are the ones several queries share.
const (
	VerdictSignificant      = "Significant"
	VerdictNotSignificant   = "Not Significant"
	VerdictInsufficientData = "Insufficient Data"
	VerdictOneCategory      = "One Category Dominant"
)

// ResultRow is one statistical query's answer. ID is the stable join key the
// dashboard uses; Stat is the primary numeric statistic (0 when the
// meaningful output is categorical); PValue is NaN when no significance test
// applies and is rendered as "N/A" in exports.
type ResultRow struct {
	ID     core.QueryID `json:"id"`
	Group  Group        `json:"group"`
	Query  string       `json:"query"`
	Stat   float64      `json:"stat"`
	PValue float64      `json:"p_value"`
	Result string       `json:"result"`
}

// Table is the aggregated battery output, ordered by query definition order.
type Table struct {
	Rows []ResultRow `json:"rows"`
}

// Lookup finds a row by ID. The second return is false when the query's row
// was omitted (e.g. it crashed); consumers must render a pending state, not
// fail.
func (t *Table) Lookup(id core.QueryID) (ResultRow, bool) {
	for _, r := range t.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return ResultRow{}, false
}
