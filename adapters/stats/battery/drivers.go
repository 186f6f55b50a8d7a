package battery

import (
	"fmt"
	"math"

	"toypal/adapters/stats/compute"
	"toypal/domain/study"
	"toypal/domain/verdict"
)

// Winner labels for the competing-driver comparison.
const (
	DriverHome       = "Home Application"
	DriverEngagement = "Story Engagement"
)

// strongerDriver (Q5): which of home application and story engagement
// correlates more strongly with social impact. The home correlation is
// computed first, engagement second; the winner is home only when its
// absolute r is strictly larger, so an exact tie deterministically falls to
// the second-computed predictor.
func strongerDriver(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColHomeApplication, study.ColEngagement, study.ColSocialImpact) {
		return skip("")
	}

	homeX, homeY := ds.Paired(study.ColHomeApplication, study.ColSocialImpact)
	rHome, err := compute.Pearson(homeX, homeY)
	if err != nil {
		return skip("")
	}

	engX, engY := ds.Paired(study.ColEngagement, study.ColSocialImpact)
	rEng, err := compute.Pearson(engX, engY)
	if err != nil {
		return skip("")
	}

	winner := DriverEngagement
	if math.Abs(rHome.R) > math.Abs(rEng.R) {
		winner = DriverHome
	}
	return row(rHome.R, winner)
}

// personalizationEnjoyment (Q6): do highly personalized sessions score
// higher on enjoyment? Welch's t-test between high (>= cut) and low
// personalization groups.
func personalizationEnjoyment(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColPersonalization, study.ColEnjoyment) {
		return skip("")
	}
	high, low := ds.SplitByCut(study.ColPersonalization, study.HighItemCut, study.ColEnjoyment)
	if len(high) < study.MinGroupSize || len(low) < study.MinGroupSize {
		return skip("")
	}
	tt, err := compute.WelchTTest(high, low)
	if err != nil {
		return skip("")
	}
	result := verdict.VerdictNotSignificant
	if tt.P < study.SignificanceAlpha {
		result = verdict.VerdictSignificant
	}
	return sigRow(tt.T, tt.P, result)
}

// understandingGeneralization (Q7): correlation between theme understanding
// and generalization, classified by magnitude against the fixed cutoff.
func understandingGeneralization(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColThemeUnderstanding, study.ColGeneralization) {
		return skip("")
	}
	x, y := ds.Paired(study.ColThemeUnderstanding, study.ColGeneralization)
	corr, err := compute.Pearson(x, y)
	if err != nil {
		return skip("")
	}
	result := "Moderate/Weak"
	if corr.R > study.StrongCorrelation {
		result = "Strong Correlation"
	}
	return sigRow(corr.R, corr.P, result)
}

// realLifeLinkBoost (Q8): difference in mean success rate between sessions
// with high and low real-life linking.
func realLifeLinkBoost(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColRealLifeLink, study.ColSuccessRate) {
		return skip("")
	}
	high, low := ds.SplitByCut(study.ColRealLifeLink, study.HighItemCut, study.ColSuccessRate)
	if len(high) == 0 || len(low) == 0 {
		return skip("")
	}
	diff := compute.Mean(high) - compute.Mean(low)
	return row(diff, fmt.Sprintf("%+.1f%% Success Rate", diff))
}
