package study

import "toypal/domain/core"

// Canonical column keys. Every consumer downstream of the normalizer reads
// these names and only these names; raw schema variants are reconciled by the
// cleaning adapter's rename tables before a Dataset exists.
const (
	ColParticipantID core.ColumnKey = "participant_id"
	ColSessionNumber core.ColumnKey = "session_number"
	ColAge           core.ColumnKey = "age"
	ColGender        core.ColumnKey = "gender"
	ColSubmittedBy   core.ColumnKey = "submitted_by"
	ColStoryTheme    core.ColumnKey = "story_theme"
	ColNotes         core.ColumnKey = "notes_observations"

	// Questionnaire item scores. Bounded ordinal scales; the scale noted per
	// item is the one the thresholds in thresholds.go assume.
	ColEngagement         core.ColumnKey = "Q1_Engagement_Numeric"          // 0-5
	ColPersonalization    core.ColumnKey = "Q2_Personalization_Numeric"     // 0-4
	ColEmotionalConn      core.ColumnKey = "Q3_Emotional_Connection_Numeric" // 0-5
	ColVerbalPartic       core.ColumnKey = "Q4_Verbal_Participation_Numeric" // 0-10
	ColEnjoyment          core.ColumnKey = "Q7_Enjoyment_Numeric"           // 0-4
	ColDistress           core.ColumnKey = "Q8_Distress_Numeric"            // 0-4
	ColInitiation         core.ColumnKey = "Q9_Initiation_Numeric"          // 0-5
	ColCreativity         core.ColumnKey = "Q11_Creativity_Numeric"         // 0-5
	ColRelationshipImpact core.ColumnKey = "Q13_Relationship_Impact_Numeric" // 0-5
	ColResponseTime       core.ColumnKey = "Q15_Response_Time_Seconds"      // seconds
	ColThemeUnderstanding core.ColumnKey = "Q18_Theme_Understanding_Numeric" // 0-5
	ColHomeApplication    core.ColumnKey = "Q20_Home_Application_Numeric"   // 0-4
	ColConfidence         core.ColumnKey = "Q21_Confidence_Numeric"         // 0-5
	ColGeneralization     core.ColumnKey = "Q22_Generalization_Numeric"     // 0-5
	ColRealLifeLink       core.ColumnKey = "Q25_Real_Life_Link_Numeric"     // 0-4
	ColSocialImpact       core.ColumnKey = "Q26_Social_Impact_Numeric"      // 0-10
	ColSuccessRate        core.ColumnKey = "Q27_Success_Rate_Numeric"       // 0-100 (%)
)

// ScoreColumns lists every canonical numeric item score, in the fixed order
// used by exports and by the normalizer's coerce pass.
var ScoreColumns = []core.ColumnKey{
	ColEngagement,
	ColPersonalization,
	ColEmotionalConn,
	ColVerbalPartic,
	ColEnjoyment,
	ColDistress,
	ColInitiation,
	ColCreativity,
	ColRelationshipImpact,
	ColResponseTime,
	ColThemeUnderstanding,
	ColHomeApplication,
	ColConfidence,
	ColGeneralization,
	ColRealLifeLink,
	ColSocialImpact,
	ColSuccessRate,
}
