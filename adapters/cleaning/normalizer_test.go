package cleaning

import (
	"math"
	"testing"

	"toypal/adapters/excel"
	"toypal/domain/study"
)

func TestParseDurationSeconds(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"120 seconds", 120},
		{"120", 120},
		{"2 Minutes", 120},
		{"1.5 min", 90},
		{"roughly 3 MINUTES or so", 180},
		{"-30 seconds", -30},
	}
	for _, c := range cases {
		if got := ParseDurationSeconds(c.in); got != c.want {
			t.Errorf("ParseDurationSeconds(%q) = %f, want %f", c.in, got, c.want)
		}
	}

	for _, in := range []string{"", "unknown", "a while"} {
		if got := ParseDurationSeconds(in); !math.IsNaN(got) {
			t.Errorf("ParseDurationSeconds(%q) = %f, want NaN", in, got)
		}
	}
}

func TestParsePercentage(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"85%", 85},
		{" 85 % ", 85},
		{"42.5", 42.5},
		{"0%", 0},
	}
	for _, c := range cases {
		if got := ParsePercentage(c.in); got != c.want {
			t.Errorf("ParsePercentage(%q) = %f, want %f", c.in, got, c.want)
		}
	}

	for _, in := range []string{"", "n/a", "%"} {
		if got := ParsePercentage(in); !math.IsNaN(got) {
			t.Errorf("ParsePercentage(%q) = %f, want NaN", in, got)
		}
	}
}

func TestDetectSchema(t *testing.T) {
	v1 := []string{"Participant_ID", "Session_Number", "Q1_Engagement", "Q26_Social_Impact_Score"}
	if got := DetectSchema(v1); got != SchemaV1 {
		t.Errorf("expected v1, got %q", got)
	}

	v2 := []string{"participant_id", "session_number", "engagement_score_q1", "social_impact_score_q26"}
	if got := DetectSchema(v2); got != SchemaV2 {
		t.Errorf("expected v2, got %q", got)
	}

	if got := DetectSchema([]string{"foo", "bar"}); got != SchemaVersion("") {
		t.Errorf("expected unknown schema, got %q", got)
	}
}

func TestNormalize_V1RowMapping(t *testing.T) {
	raw := &excel.RawTable{
		Headers: []string{"Participant_ID", "Session_Number", "Age", "Gender",
			"Submitted_By", "Q1_Engagement", "Q15_Response_Time_Min",
			"Q27_Success_Percentage", "Notes_Observations"},
		Rows: []excel.RawRow{{
			"Participant_ID":         "101",
			"Session_Number":         "3",
			"Age":                    "7",
			"Gender":                 "Male",
			"Submitted_By":           "P",
			"Q1_Engagement":          "4",
			"Q15_Response_Time_Min":  "2 Minutes",
			"Q27_Success_Percentage": "85%",
			"Notes_Observations":     "engaged and calm",
		}},
	}

	res := NewNormalizer().Normalize(raw)
	if res.Schema != SchemaV1 {
		t.Fatalf("expected v1 schema, got %q", res.Schema)
	}
	if res.Dataset.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", res.Dataset.Len())
	}

	r := res.Dataset.Rows()[0]
	if string(r.ParticipantID) != "101" || r.SessionNumber != 3 || r.Age != 7 {
		t.Errorf("identity fields wrong: %+v", r)
	}
	if r.SubmittedBy != study.RaterParent {
		t.Errorf("rater shorthand not folded: %q", r.SubmittedBy)
	}
	if got := r.Score(study.ColEngagement); got != 4 {
		t.Errorf("engagement = %f, want 4", got)
	}
	if got := r.Score(study.ColResponseTime); got != 120 {
		t.Errorf("response time = %f, want 120 seconds", got)
	}
	if got := r.Score(study.ColSuccessRate); got != 85 {
		t.Errorf("success rate = %f, want 85", got)
	}
}

func TestNormalize_CellPolicies(t *testing.T) {
	raw := &excel.RawTable{
		Headers: []string{"Participant_ID", "Session_Number", "Q1_Engagement",
			"Q15_Response_Time_Min", "Q27_Success_Percentage"},
		Rows: []excel.RawRow{{
			"Participant_ID":         "101",
			"Session_Number":         "1",
			"Q1_Engagement":          "not recorded",
			"Q15_Response_Time_Min":  "unknown",
			"Q27_Success_Percentage": "n/a",
		}},
	}

	r := NewNormalizer().Normalize(raw).Dataset.Rows()[0]

	// Ordinal scores zero-fill on a bad cell; durations and percentages
	// stay missing so means exclude them.
	if got := r.Score(study.ColEngagement); got != 0 {
		t.Errorf("bad score cell should coerce to 0, got %f", got)
	}
	if got := r.Score(study.ColResponseTime); !math.IsNaN(got) {
		t.Errorf("bad duration cell should be NaN, got %f", got)
	}
	if got := r.Score(study.ColSuccessRate); !math.IsNaN(got) {
		t.Errorf("bad percentage cell should be NaN, got %f", got)
	}
}

func TestNormalize_DropsOnlyMissingParticipant(t *testing.T) {
	raw := &excel.RawTable{
		Headers: []string{"Participant_ID", "Session_Number", "Q1_Engagement"},
		Rows: []excel.RawRow{
			{"Participant_ID": "101", "Session_Number": "1", "Q1_Engagement": "3"},
			{"Participant_ID": "", "Session_Number": "2", "Q1_Engagement": "4"},
			{"Participant_ID": "  ", "Session_Number": "garbage", "Q1_Engagement": "bad"},
			{"Participant_ID": "102", "Session_Number": "garbage", "Q1_Engagement": "bad"},
		},
	}

	res := NewNormalizer().Normalize(raw)
	if res.Dropped != 2 {
		t.Errorf("expected 2 dropped rows, got %d", res.Dropped)
	}
	if res.Dataset.Len() != 2 {
		t.Errorf("expected 2 surviving rows, got %d", res.Dataset.Len())
	}
}

func TestNormalize_RemovesExactDuplicates(t *testing.T) {
	dup := excel.RawRow{"Participant_ID": "101", "Session_Number": "1", "Q1_Engagement": "3"}
	raw := &excel.RawTable{
		Headers: []string{"Participant_ID", "Session_Number", "Q1_Engagement"},
		Rows: []excel.RawRow{
			dup,
			{"Participant_ID": "101", "Session_Number": "2", "Q1_Engagement": "3"},
			{"Participant_ID": "101", "Session_Number": "1", "Q1_Engagement": "3"},
		},
	}

	res := NewNormalizer().Normalize(raw)
	if res.Duplicates != 1 {
		t.Errorf("expected 1 duplicate removed, got %d", res.Duplicates)
	}
	if res.Dataset.Len() != 2 {
		t.Errorf("expected 2 rows after dedupe, got %d", res.Dataset.Len())
	}
}

func TestNormalize_ColumnPresenceTracksSource(t *testing.T) {
	raw := &excel.RawTable{
		Headers: []string{"Participant_ID", "Session_Number", "Q1_Engagement"},
		Rows: []excel.RawRow{
			{"Participant_ID": "101", "Session_Number": "1", "Q1_Engagement": "3"},
		},
	}

	ds := NewNormalizer().Normalize(raw).Dataset
	if !ds.HasColumn(study.ColEngagement) {
		t.Error("engagement column should be present")
	}
	if ds.HasColumn(study.ColDistress) {
		t.Error("distress column was never in the source")
	}
}

func TestNormalize_CanonicalHeadersRoundTrip(t *testing.T) {
	// A silver export uses canonical headers; feeding it back through the
	// normalizer must not lose columns regardless of detected schema.
	raw := &excel.RawTable{
		Headers: []string{"participant_id", "session_number",
			"Q1_Engagement_Numeric", "Q15_Response_Time_Seconds"},
		Rows: []excel.RawRow{{
			"participant_id":            "101",
			"session_number":            "2",
			"Q1_Engagement_Numeric":     "4",
			"Q15_Response_Time_Seconds": "95",
		}},
	}

	ds := NewNormalizer().Normalize(raw).Dataset
	if ds.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", ds.Len())
	}
	r := ds.Rows()[0]
	if got := r.Score(study.ColEngagement); got != 4 {
		t.Errorf("engagement lost in round trip: %f", got)
	}
	if got := r.Score(study.ColResponseTime); got != 95 {
		t.Errorf("response time lost in round trip: %f", got)
	}
}
