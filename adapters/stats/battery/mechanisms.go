package battery

import (
	"toypal/adapters/stats/compute"
	"toypal/domain/study"
	"toypal/domain/verdict"
)

// personalizationInitiation (Q9): directional correlation with a purely
// magnitude-based label; no significance gate applies here.
func personalizationInitiation(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColPersonalization, study.ColInitiation) {
		return skip("")
	}
	x, y := ds.Paired(study.ColPersonalization, study.ColInitiation)
	corr, err := compute.Pearson(x, y)
	if err != nil {
		return skip("")
	}
	result := "Weak Link"
	if corr.R > study.PositiveDriverCorrelation {
		result = "Positive Driver"
	}
	return sigRow(corr.R, corr.P, result)
}

// creativityConfidence (Q10): correlation gated on significance.
func creativityConfidence(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColCreativity, study.ColConfidence) {
		return skip("")
	}
	x, y := ds.Paired(study.ColCreativity, study.ColConfidence)
	corr, err := compute.Pearson(x, y)
	if err != nil {
		return skip("")
	}
	result := "Not Predictive"
	if corr.P < study.SignificanceAlpha {
		result = "Predictive"
	}
	return sigRow(corr.R, corr.P, result)
}

// ageImprovementSpeed (Q11): each participant's individual response-time
// slope across sessions, correlated with age over the cohort. A negative
// correlation means older participants speed up faster.
func ageImprovementSpeed(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColResponseTime, study.ColAge) {
		return skip("")
	}

	var ages, slopes []float64
	for _, pid := range ds.Participants() {
		rows := ds.ParticipantRows(pid)
		var sessions, times []float64
		for _, r := range rows {
			if r.HasScore(study.ColResponseTime) {
				sessions = append(sessions, float64(r.SessionNumber))
				times = append(times, r.Score(study.ColResponseTime))
			}
		}
		if len(sessions) < study.MinSlopePoints {
			continue
		}
		slope, err := compute.Slope(sessions, times)
		if err != nil {
			continue // single distinct session number: slope undefined
		}
		slopes = append(slopes, slope)
		ages = append(ages, rows[0].Age)
	}

	if len(slopes) < study.MinParticipantSlopes {
		return skip("")
	}
	corr, err := compute.Pearson(ages, slopes)
	if err != nil {
		return skip("")
	}
	result := "Younger improves faster"
	if corr.R < 0 {
		result = "Older improves faster"
	}
	return sigRow(corr.R, corr.P, result)
}

// genderEmotionDifference (Q12): Welch's t-test on emotional connection
// between gender subgroups. An empty subgroup means the cohort is one-sided
// and no test is attempted at all.
func genderEmotionDifference(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColGender, study.ColEmotionalConn) {
		return skip("")
	}

	var male, female []float64
	for _, r := range ds.Rows() {
		if !r.HasScore(study.ColEmotionalConn) {
			continue
		}
		switch r.Gender {
		case "Male":
			male = append(male, r.Score(study.ColEmotionalConn))
		case "Female":
			female = append(female, r.Score(study.ColEmotionalConn))
		}
	}

	if len(male) == 0 || len(female) == 0 {
		return skip(verdict.VerdictOneCategory)
	}
	if len(male) < study.MinGroupSize || len(female) < study.MinGroupSize {
		return skip("")
	}
	tt, err := compute.WelchTTest(male, female)
	if err != nil {
		return skip("")
	}
	result := "No Gender Diff"
	if tt.P < study.SignificanceAlpha {
		result = "Significant Diff"
	}
	return sigRow(tt.T, tt.P, result)
}
