package study

// Executive carries the headline cohort metrics shown on the dashboard
// summary view and at the top of the clinical report.
type Executive struct {
	Participants    int     `json:"participants"`
	Sessions        int     `json:"sessions"`
	AvgSocialImpact float64 `json:"avg_social_impact"`
	OverallSlope    float64 `json:"overall_slope"`
	CohensD         float64 `json:"cohens_d"`
	EffectSize      string  `json:"effect_size"`
	EfficiencyGain  float64 `json:"efficiency_gain_pct"`
}

// PerspectivePoint is one session's mean social-impact score split by rater.
type PerspectivePoint struct {
	Session   int     `json:"session"`
	Parent    float64 `json:"parent"`
	Therapist float64 `json:"therapist"`
}

// Perspective compares parent and therapist scoring across the study.
type Perspective struct {
	Points  []PerspectivePoint `json:"points"`
	MeanGap float64            `json:"mean_gap"`
}

// EffectSizeLabel buckets Cohen's d the way clinical summaries report it.
func EffectSizeLabel(d float64) string {
	abs := d
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= EffectSizeLarge:
		return "Large"
	case abs >= EffectSizeMedium:
		return "Medium"
	default:
		return "Small"
	}
}
