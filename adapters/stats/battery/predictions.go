package battery

import (
	"toypal/adapters/stats/compute"
	"toypal/domain/study"
	"toypal/domain/verdict"
)

// earlyEngagementPredictor (Q13): does engagement in the first three
// sessions predict the final-session outcome? Per-participant early means
// are inner-joined with per-participant final-session outcomes; participants
// missing either side drop out of both series.
func earlyEngagementPredictor(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColEngagement, study.ColSocialImpact) {
		return skip("")
	}

	var early, final []float64
	for _, pid := range ds.Participants() {
		rows := ds.ParticipantRows(pid)

		var earlyVals []float64
		lastSession := 0
		for _, r := range rows {
			if r.SessionNumber <= study.EarlySessionWindow && r.HasScore(study.ColEngagement) {
				earlyVals = append(earlyVals, r.Score(study.ColEngagement))
			}
			if r.HasScore(study.ColSocialImpact) && r.SessionNumber > lastSession {
				lastSession = r.SessionNumber
			}
		}
		if len(earlyVals) == 0 || lastSession == 0 {
			continue // participant absent from one side: excluded from both
		}

		var finalVals []float64
		for _, r := range rows {
			if r.SessionNumber == lastSession && r.HasScore(study.ColSocialImpact) {
				finalVals = append(finalVals, r.Score(study.ColSocialImpact))
			}
		}

		early = append(early, compute.Mean(earlyVals))
		final = append(final, compute.Mean(finalVals))
	}

	if len(early) < study.MinAlignedParticipants {
		return skip("")
	}
	corr, err := compute.Pearson(early, final)
	if err != nil {
		return skip("")
	}
	result := "Weak Predictor"
	if corr.R > study.StrongPredictorCorrelation {
		result = "Strong Predictor"
	}
	return sigRow(corr.R, corr.P, result)
}

// noveltyEffect (Q14): do sessions with a fresh story theme spike verbal
// participation? Rows after the first session are split by whether the
// theme changed from the participant's previous session.
func noveltyEffect(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColStoryTheme, study.ColVerbalPartic) {
		return skip("")
	}

	var changed, same []float64
	for _, pid := range ds.Participants() {
		rows := ds.ParticipantRows(pid)
		prevTheme := ""
		prevSession := 0
		for _, r := range rows {
			if prevSession > 0 && r.SessionNumber > prevSession && r.HasScore(study.ColVerbalPartic) {
				if r.StoryTheme != prevTheme {
					changed = append(changed, r.Score(study.ColVerbalPartic))
				} else {
					same = append(same, r.Score(study.ColVerbalPartic))
				}
			}
			prevTheme = r.StoryTheme
			prevSession = r.SessionNumber
		}
	}

	if len(changed) < study.MinGroupSize || len(same) < study.MinGroupSize {
		return skip("")
	}
	tt, err := compute.WelchTTest(changed, same)
	if err != nil {
		return skip("")
	}
	result := "No Significant Spike"
	if tt.T > 0 && tt.P < study.SignificanceAlpha {
		result = "Spike Observed"
	}
	return sigRow(tt.T, tt.P, result)
}

// initiationRelationship (Q15): lagged relationship between interaction
// initiation and relationship impact, gated on significance.
func initiationRelationship(ds *study.Dataset) verdict.ResultRow {
	if !ds.HasColumn(study.ColInitiation, study.ColRelationshipImpact) {
		return skip("")
	}
	x, y := ds.Paired(study.ColInitiation, study.ColRelationshipImpact)
	corr, err := compute.Pearson(x, y)
	if err != nil {
		return skip("")
	}
	result := "Unrelated"
	if corr.P < study.SignificanceAlpha {
		result = "Correlated"
	}
	return sigRow(corr.R, corr.P, result)
}
