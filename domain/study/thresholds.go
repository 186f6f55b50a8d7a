package study

// Fixed clinical thresholds consumed by the statistical battery and the
// reporting layer. Kept in one place so they can be audited and tested
// independently of the query logic that applies them.
const (
	// SignificanceAlpha is the p-value ceiling for calling a result significant.
	SignificanceAlpha = 0.05

	// StrongCorrelation is the |r| floor for a "strong" correlation verdict.
	StrongCorrelation = 0.6

	// PositiveDriverCorrelation is the r floor for the "positive driver" label.
	PositiveDriverCorrelation = 0.5

	// StrongPredictorCorrelation is the r floor for the "strong predictor" label.
	StrongPredictorCorrelation = 0.7

	// Cohen's d bands for effect-size classification.
	EffectSizeLarge  = 0.8
	EffectSizeMedium = 0.5

	// HighItemCut splits a 0-4 ordinal item into high (>= cut) and low groups.
	HighItemCut = 3.0

	// DistressCut: a distress score strictly above this counts as a
	// high-distress session (0-4 scale: 3 = "Often", 4 = "Very Frequently").
	DistressCut = 3.0

	// LowStarterCut: participants scoring below this on a 0-10 item at their
	// first observed session count as low starters.
	LowStarterCut = 6.0

	// EarlySessionWindow bounds the "early sessions" aggregate (sessions <= 3).
	EarlySessionWindow = 3

	// Minimum-sample preconditions. Checked before any statistical routine
	// runs; failing them yields an explicit insufficient-data verdict.
	MinSlopePoints         = 2
	MinGroupSize           = 2
	MinCorrelationPairs    = 2
	MinAlignedParticipants = 3
	MinParticipantSlopes   = 2
)
