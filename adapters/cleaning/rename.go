package cleaning

import "toypal/domain/core"

// SchemaVersion identifies a known raw export schema. The study dataset has
// shipped under two header conventions; each gets its own rename table so
// the battery only ever sees canonical names.
type SchemaVersion string

const (
	// SchemaV1 is the original generator export (TitleCase_With_Underscores).
	SchemaV1 SchemaVersion = "v1"
	// SchemaV2 is the later analysis export (snake_case_with_item_suffix).
	SchemaV2 SchemaVersion = "v2"
)

// renameV1 maps the generator-era headers onto canonical names.
var renameV1 = map[string]core.ColumnKey{
	"Participant_ID":          "participant_id",
	"Session_Number":          "session_number",
	"Age":                     "age",
	"Gender":                  "gender",
	"Submitted_By":            "submitted_by",
	"Story_Theme":             "story_theme",
	"Notes_Observations":      "notes_observations",
	"Q1_Engagement":           "Q1_Engagement_Numeric",
	"Q2_Personalization":      "Q2_Personalization_Numeric",
	"Q3_Emotional_Connection": "Q3_Emotional_Connection_Numeric",
	"Q4_Verbal_Participation": "Q4_Verbal_Participation_Numeric",
	"Q7_Sign_Of_Enjoyment":    "Q7_Enjoyment_Numeric",
	"Q8_Distress":             "Q8_Distress_Numeric",
	"Q9_Initiated_Interactions": "Q9_Initiation_Numeric",
	"Q11_Creativity":          "Q11_Creativity_Numeric",
	"Q13_Relationship_Impact": "Q13_Relationship_Impact_Numeric",
	"Q15_Response_Time_Min":   "Q15_Response_Time_Seconds",
	"Q18_Theme_Understanding": "Q18_Theme_Understanding_Numeric",
	"Q20_Home_Application":    "Q20_Home_Application_Numeric",
	"Q21_Potential_Confidence": "Q21_Confidence_Numeric",
	"Q22_Generalization":      "Q22_Generalization_Numeric",
	"Q25_Real_Life_Link":      "Q25_Real_Life_Link_Numeric",
	"Q26_Social_Impact_Score": "Q26_Social_Impact_Numeric",
	"Q27_Success_Percentage":  "Q27_Success_Rate_Numeric",
}

// renameV2 maps the analysis-era headers onto canonical names. Two headers
// ("sign_of_enjoyment_Q7" and "enjoyment_score_q7") both appeared in the
// wild for the same item, so both are listed.
var renameV2 = map[string]core.ColumnKey{
	"participant_id":                       "participant_id",
	"session_number":                       "session_number",
	"age":                                  "age",
	"gender":                               "gender",
	"submitted_by":                         "submitted_by",
	"Theme_specific_situation":             "story_theme",
	"notes_intervention":                   "notes_observations",
	"engagement_score_q1":                  "Q1_Engagement_Numeric",
	"personalization_score_q2":             "Q2_Personalization_Numeric",
	"emotional_conn_score_q3":              "Q3_Emotional_Connection_Numeric",
	"verbal_partic_score_q4":               "Q4_Verbal_Participation_Numeric",
	"enjoyment_score_q7":                   "Q7_Enjoyment_Numeric",
	"sign_of_enjoyment_Q7":                 "Q7_Enjoyment_Numeric",
	"distress_boredom_frustration_score_q8": "Q8_Distress_Numeric",
	"interaction_init_q9":                  "Q9_Initiation_Numeric",
	"creativity_score_q11":                 "Q11_Creativity_Numeric",
	"relationship_impact_q13":              "Q13_Relationship_Impact_Numeric",
	"response_time_min_q15":                "Q15_Response_Time_Seconds",
	"theme_understand_q18":                 "Q18_Theme_Understanding_Numeric",
	"applied_learning_q20":                 "Q20_Home_Application_Numeric",
	"confidence_potential_q21":             "Q21_Confidence_Numeric",
	"generalization_q22":                   "Q22_Generalization_Numeric",
	"real_life_link_q25":                   "Q25_Real_Life_Link_Numeric",
	"social_impact_score_q26":              "Q26_Social_Impact_Numeric",
	"success_percentage":                   "Q27_Success_Rate_Numeric",
}

// canonicalPassthrough accepts already-canonical headers unchanged, so a
// silver table can be re-fed through the normalizer idempotently.
func canonicalPassthrough() map[string]core.ColumnKey {
	out := make(map[string]core.ColumnKey)
	for _, canonical := range renameV2 {
		out[string(canonical)] = canonical
	}
	return out
}

// RenameTable returns the header mapping for a schema version. Canonical
// headers are always accepted on top of the version's raw names, so a
// silver table round-trips through the normalizer unchanged. Unknown
// versions get the union of every known table.
func RenameTable(version SchemaVersion) map[string]core.ColumnKey {
	merged := canonicalPassthrough()
	switch version {
	case SchemaV1:
		for k, v := range renameV1 {
			merged[k] = v
		}
	case SchemaV2:
		for k, v := range renameV2 {
			merged[k] = v
		}
	default:
		for k, v := range renameV1 {
			merged[k] = v
		}
		for k, v := range renameV2 {
			merged[k] = v
		}
	}
	return merged
}

// DetectSchema inspects raw headers and picks the rename table with the most
// hits. Canonical headers always resolve via passthrough regardless of the
// detected version.
func DetectSchema(headers []string) SchemaVersion {
	v1Hits, v2Hits := 0, 0
	for _, h := range headers {
		if _, ok := renameV1[h]; ok {
			v1Hits++
		}
		if _, ok := renameV2[h]; ok {
			v2Hits++
		}
	}
	if v1Hits > v2Hits {
		return SchemaV1
	}
	if v2Hits > 0 {
		return SchemaV2
	}
	return SchemaVersion("")
}
