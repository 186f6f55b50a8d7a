package app

import (
	"math"
	"sort"

	"toypal/adapters/stats/compute"
	"toypal/domain/core"
	"toypal/domain/study"
)

// BuildExecutive computes the headline cohort metrics from the clean dataset.
func BuildExecutive(ds *study.Dataset) study.Executive {
	exec := study.Executive{
		Participants: len(ds.Participants()),
		Sessions:     ds.Len(),
	}

	if ds.HasColumn(study.ColSocialImpact) {
		exec.AvgSocialImpact = compute.Mean(ds.Column(study.ColSocialImpact))

		sessions, impacts := ds.SessionPaired(study.ColSocialImpact)
		if slope, err := compute.Slope(sessions, impacts); err == nil {
			exec.OverallSlope = slope
		}

		first := sessionScores(ds, ds.MinSession(), study.ColSocialImpact)
		last := sessionScores(ds, ds.MaxSession(), study.ColSocialImpact)
		if len(first) >= study.MinGroupSize && len(last) >= study.MinGroupSize {
			exec.CohensD = compute.CohensD(last, first)
		}
	}
	exec.EffectSize = study.EffectSizeLabel(exec.CohensD)

	if ds.HasColumn(study.ColResponseTime) {
		firstRT := compute.Mean(sessionScores(ds, ds.MinSession(), study.ColResponseTime))
		lastRT := compute.Mean(sessionScores(ds, ds.MaxSession(), study.ColResponseTime))
		exec.EfficiencyGain = compute.PercentChange(firstRT, lastRT)
	}

	// NaN never leaves here; the summary endpoint and the report both
	// encode these fields directly.
	exec.AvgSocialImpact = nanToZero(exec.AvgSocialImpact)
	exec.EfficiencyGain = nanToZero(exec.EfficiencyGain)
	return exec
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// BuildPerspective compares parent and therapist mean social-impact scores
// per session. Sessions where one rater never scored show NaN on that side.
func BuildPerspective(ds *study.Dataset) study.Perspective {
	if !ds.HasColumn(study.ColSocialImpact) {
		return study.Perspective{}
	}

	type bucket struct {
		parent, therapist []float64
	}
	buckets := map[int]*bucket{}
	for _, r := range ds.Rows() {
		v := r.Score(study.ColSocialImpact)
		if math.IsNaN(v) {
			continue
		}
		b := buckets[r.SessionNumber]
		if b == nil {
			b = &bucket{}
			buckets[r.SessionNumber] = b
		}
		switch r.SubmittedBy {
		case study.RaterParent:
			b.parent = append(b.parent, v)
		case study.RaterTherapist:
			b.therapist = append(b.therapist, v)
		}
	}

	sessions := make([]int, 0, len(buckets))
	for s := range buckets {
		sessions = append(sessions, s)
	}
	sort.Ints(sessions)

	var p study.Perspective
	var gaps []float64
	for _, s := range sessions {
		b := buckets[s]
		point := study.PerspectivePoint{
			Session:   s,
			Parent:    compute.Mean(b.parent),
			Therapist: compute.Mean(b.therapist),
		}
		p.Points = append(p.Points, point)
		if !math.IsNaN(point.Parent) && !math.IsNaN(point.Therapist) {
			gaps = append(gaps, math.Abs(point.Parent-point.Therapist))
		}
	}
	p.MeanGap = compute.Mean(gaps)
	if math.IsNaN(p.MeanGap) {
		p.MeanGap = 0
	}
	return p
}

func sessionScores(ds *study.Dataset, session int, col core.ColumnKey) []float64 {
	var out []float64
	for _, r := range ds.Select(func(r study.SessionRecord) bool { return r.SessionNumber == session }) {
		if v := r.Score(col); !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
