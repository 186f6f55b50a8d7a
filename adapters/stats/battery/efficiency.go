package battery

import (
	"fmt"
	"math"

	"toypal/adapters/stats/compute"
	"toypal/domain/core"
	"toypal/domain/study"
	"toypal/domain/verdict"
)

// socialImpactTrend (Q1): does social impact climb with session number?
// Pearson correlation across all rows, significant at p < alpha.
func socialImpactTrend(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColSocialImpact) {
		return skip("")
	}
	sessions, impact := ds.SessionPaired(study.ColSocialImpact)
	if len(sessions) < study.MinCorrelationPairs {
		return skip("")
	}
	corr, err := compute.Pearson(sessions, impact)
	if err != nil {
		return skip("")
	}
	result := verdict.VerdictNotSignificant
	if corr.P < study.SignificanceAlpha {
		result = verdict.VerdictSignificant
	}
	return sigRow(corr.R, corr.P, result)
}

// responseTimeReduction (Q2): percentage drop in mean response time between
// the first and last observed sessions. A zero or absent first-session mean
// yields 0 rather than a division by zero; a last session with no finite
// values is missing data, not a zero improvement.
func responseTimeReduction(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColResponseTime) || ds.Len() == 0 {
		return skip("")
	}
	first := sessionMean(ds, ds.MinSession(), study.ColResponseTime)
	last := sessionMean(ds, ds.MaxSession(), study.ColResponseTime)
	if math.IsNaN(last) {
		return skip("")
	}
	pct := compute.PercentChange(first, last)
	return row(pct, fmt.Sprintf("%.1f%% Improvement", pct))
}

// highDistressCount (Q3): sessions where distress exceeds the severity cut.
func highDistressCount(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColDistress) {
		return skip("")
	}
	count := 0
	for _, r := range ds.Rows() {
		if r.HasScore(study.ColDistress) && r.Score(study.ColDistress) > study.DistressCut {
			count++
		}
	}
	return row(float64(count), fmt.Sprintf("%d high-distress sessions", count))
}

// lowStarterGrowthSlope (Q4): for participants who scored below the
// low-starter cut on verbal participation at their first observed session,
// the OLS slope of that item against session number over all their rows.
func lowStarterGrowthSlope(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColVerbalPartic) {
		return skip("")
	}

	lowStarters := map[core.ParticipantID]bool{}
	for _, pid := range ds.Participants() {
		rows := ds.ParticipantRows(pid)
		for _, r := range rows {
			if !r.HasScore(study.ColVerbalPartic) {
				continue
			}
			if r.Score(study.ColVerbalPartic) < study.LowStarterCut {
				lowStarters[pid] = true
			}
			break // only the first observed session decides
		}
	}

	var sessions, scores []float64
	for _, r := range ds.Rows() {
		if lowStarters[r.ParticipantID] && r.HasScore(study.ColVerbalPartic) {
			sessions = append(sessions, float64(r.SessionNumber))
			scores = append(scores, r.Score(study.ColVerbalPartic))
		}
	}
	if len(sessions) < study.MinSlopePoints {
		return skip("")
	}
	slope, err := compute.Slope(sessions, scores)
	if err != nil {
		return skip("")
	}
	return row(slope, fmt.Sprintf("Avg %+.2f pts/session", slope))
}

// sessionMean averages a column over the rows of a single session number.
// Returns NaN when the session has no finite values for the column.
func sessionMean(ds *study.Dataset, session int, col core.ColumnKey) float64 {
	var vals []float64
	for _, r := range ds.Rows() {
		if r.SessionNumber == session && r.HasScore(col) {
			vals = append(vals, r.Score(col))
		}
	}
	return compute.Mean(vals)
}
