// Package battery is the gold-layer statistical engine: a fixed, ordered
// set of fifteen independent queries over the canonical dataset. Each query
// is a pure function that reads the shared read-only dataset and answers one
// research question as a single result row.
//
// Failure isolation is the core contract: an unmet sample precondition
// short-circuits into an explicit insufficient-data row before any
// statistical routine runs, and an unexpected panic in one query is
// recovered and omits only that query's row.
package battery

import (
	"math"

	"toypal/domain/core"
	"toypal/domain/study"
	"toypal/domain/verdict"
	"toypal/internal"
)

// QueryFunc answers one research question over the canonical dataset.
type QueryFunc func(ds *study.Dataset) verdict.ResultRow

// Query pairs a stable ID with its computation. The registry order is the
// output order; downstream joins depend on both being fixed.
type Query struct {
	ID    core.QueryID
	Group verdict.Group
	Label string
	Run   QueryFunc
}

// Queries returns the full battery in definition order.
func Queries() []Query {
	return []Query{
		{"Q1", verdict.GroupEfficiency, "Social Impact Trend", socialImpactTrend},
		{"Q2", verdict.GroupEfficiency, "Response Time Reduction %", responseTimeReduction},
		{"Q3", verdict.GroupEfficiency, "High Distress Count", highDistressCount},
		{"Q4", verdict.GroupEfficiency, "Verbal Growth Slope (Low Starters)", lowStarterGrowthSlope},
		{"Q5", verdict.GroupDrivers, "Home App Correlation Strength", strongerDriver},
		{"Q6", verdict.GroupDrivers, "Personalization Impact on Enjoyment", personalizationEnjoyment},
		{"Q7", verdict.GroupDrivers, "Understanding-Generalization Link", understandingGeneralization},
		{"Q8", verdict.GroupDrivers, "Success Boost from Real Life Link", realLifeLinkBoost},
		{"Q9", verdict.GroupMechanisms, "Personalization -> Initiation", personalizationInitiation},
		{"Q10", verdict.GroupMechanisms, "Creativity -> Confidence", creativityConfidence},
		{"Q11", verdict.GroupMechanisms, "Age vs Improvement Speed", ageImprovementSpeed},
		{"Q12", verdict.GroupMechanisms, "Gender Difference in Emotion", genderEmotionDifference},
		{"Q13", verdict.GroupPredictions, "Early Engagement Predicts Outcome", earlyEngagementPredictor},
		{"Q14", verdict.GroupPredictions, "Novelty Effect (Theme Change)", noveltyEffect},
		{"Q15", verdict.GroupPredictions, "Initiation Improves Relationship", initiationRelationship},
	}
}

// Battery runs the full query registry with per-query failure isolation.
type Battery struct {
	queries []Query
	log     *internal.Logger
}

// New creates a battery over the standard registry.
func New() *Battery {
	return &Battery{queries: Queries(), log: internal.DefaultLogger}
}

// QueryCount returns the number of defined queries.
func (b *Battery) QueryCount() int { return len(b.queries) }

// Run executes every query in definition order and aggregates the rows that
// survive. A panicking query logs and omits its row; everything else still
// runs and persists.
func (b *Battery) Run(ds *study.Dataset) *verdict.Table {
	table := &verdict.Table{Rows: make([]verdict.ResultRow, 0, len(b.queries))}
	for _, q := range b.queries {
		row, ok := b.runOne(q, ds)
		if !ok {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	b.log.Info("battery complete: %d/%d queries emitted a row", len(table.Rows), len(b.queries))
	return table
}

func (b *Battery) runOne(q Query, ds *study.Dataset) (row verdict.ResultRow, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("query %s (%s) panicked: %v", q.ID, q.Label, r)
			ok = false
		}
	}()
	row = q.Run(ds)
	row.ID = q.ID
	row.Group = q.Group
	row.Query = q.Label
	return row, true
}

// skip builds the placeholder row for an unmet precondition. Stat stays 0
// and the NaN p-value renders as "N/A".
func skip(reason string) verdict.ResultRow {
	if reason == "" {
		reason = verdict.VerdictInsufficientData
	}
	return verdict.ResultRow{Stat: 0, PValue: math.NaN(), Result: reason}
}

// row builds a result row without a significance test attached.
func row(stat float64, result string) verdict.ResultRow {
	return verdict.ResultRow{Stat: stat, PValue: math.NaN(), Result: result}
}

// sigRow builds a result row carrying a p-value.
func sigRow(stat, p float64, result string) verdict.ResultRow {
	return verdict.ResultRow{Stat: stat, PValue: p, Result: result}
}
