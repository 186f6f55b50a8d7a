package nlp

import (
	"math"
	"strings"
	"testing"

	"toypal/domain/core"
	"toypal/domain/study"
)

func TestLexicon_Score(t *testing.T) {
	lex := NewLexicon()

	cases := []struct {
		name  string
		text  string
		label string
		conf  float64
	}{
		{"positive", "He smiled and stayed engaged the whole session", LabelPositive, 1.0},
		{"negative", "Very distressed, brief meltdown before snack", LabelNegative, 1.0},
		{"mixed leans positive", "frustrated at first but then calm, engaged and smiled", LabelPositive, 0.75},
		{"tie is neutral", "calm at first, then frustrated", LabelNeutral, 1.0},
		{"no hits is neutral", "Session proceeded as scheduled.", LabelNeutral, 1.0},
		{"empty", "", LabelNeutral, 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			label, conf := lex.Score(tc.text)
			if label != tc.label {
				t.Errorf("label = %s, want %s", label, tc.label)
			}
			if math.Abs(conf-tc.conf) > 1e-9 {
				t.Errorf("confidence = %f, want %f", conf, tc.conf)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("He SMILED, then laughed-out-loud! 5/5")
	want := []string{"he", "smiled", "then", "laughed", "out", "loud"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func nlpFixture() *study.Dataset {
	rows := []study.SessionRecord{
		{
			ParticipantID: "P001", SessionNumber: 1, StoryTheme: "Space",
			Notes: "Very engaged, smiled often and initiated sharing",
			Scores: map[core.ColumnKey]float64{
				study.ColEngagement:  5,
				study.ColSuccessRate: 80,
			},
		},
		{
			ParticipantID: "P001", SessionNumber: 2, StoryTheme: "Space",
			Notes:  "Distressed and withdrawn, refused the second story",
			Scores: map[core.ColumnKey]float64{study.ColEngagement: 1},
		},
		{
			ParticipantID: "P002", SessionNumber: 1, StoryTheme: "Cooking",
			Notes:  "",
			Scores: map[core.ColumnKey]float64{},
		},
	}
	return study.NewDataset(rows, map[core.ColumnKey]bool{
		study.ColEngagement:  true,
		study.ColSuccessRate: true,
	})
}

func TestAnalyze_LabelsAndMasterText(t *testing.T) {
	a := NewEngine().Analyze(nlpFixture())

	if len(a.Sessions) != 3 {
		t.Fatalf("expected a row per session, got %d", len(a.Sessions))
	}

	s1 := a.Sessions[0]
	if s1.Label != LabelPositive {
		t.Errorf("session 1 label = %s, want Positive", s1.Label)
	}
	for _, want := range []string{"Theme: Space.", "Engagement 5/5.", "Success 80%.", "smiled"} {
		if !strings.Contains(s1.MasterText, want) {
			t.Errorf("master text missing %q: %s", want, s1.MasterText)
		}
	}

	if a.Sessions[1].Label != LabelNegative {
		t.Errorf("session 2 label = %s, want Negative", a.Sessions[1].Label)
	}

	// No notes and no scores still yields a neutral row.
	s3 := a.Sessions[2]
	if s3.Label != LabelNeutral || s3.Score != 1.0 {
		t.Errorf("session 3 = %s/%f, want Neutral/1.0", s3.Label, s3.Score)
	}
	if s3.MasterText != "Theme: Cooking." {
		t.Errorf("session 3 master text = %q", s3.MasterText)
	}
}

func TestAnalyze_TrendsAreStableAndFiltered(t *testing.T) {
	a := NewEngine().Analyze(nlpFixture())

	var positives, negatives []string
	for _, tr := range a.Trends {
		if tr.Positive != "" {
			positives = append(positives, tr.Positive)
		}
		if tr.Negative != "" {
			negatives = append(negatives, tr.Negative)
		}
	}

	// Short filler from the positive note ("and", "often") never trends.
	for _, w := range positives {
		if len(w) < minKeywordLen {
			t.Errorf("short word leaked into trends: %q", w)
		}
	}
	// Equal counts sort alphabetically.
	for i := 1; i < len(positives); i++ {
		if positives[i-1] > positives[i] {
			t.Errorf("positive trends not stable: %v", positives)
		}
	}
	if len(negatives) == 0 {
		t.Error("expected negative behavioral words from session 2")
	}

	if a.MeanConfidence <= 0 || a.MeanConfidence > 1 {
		t.Errorf("mean confidence out of range: %f", a.MeanConfidence)
	}
}
