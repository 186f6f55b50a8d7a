package nlp

import (
	"strconv"

	"toypal/adapters/report"
)

var sentimentHeader = []string{
	"participant_id", "session_number", "story_theme",
	"master_text", "sentiment_label", "sentiment_score",
}

var trendsHeader = []string{"positive_behaviors", "negative_behaviors"}

// WriteSentiment persists the per-session sentiment artifact.
func WriteSentiment(path string, a *Analysis) error {
	rows := make([][]string, 0, len(a.Sessions))
	for _, s := range a.Sessions {
		rows = append(rows, []string{
			string(s.ParticipantID),
			strconv.Itoa(s.SessionNumber),
			s.StoryTheme,
			s.MasterText,
			s.Label,
			strconv.FormatFloat(s.Score, 'f', 4, 64),
		})
	}
	return report.WriteCSV(path, sentimentHeader, rows)
}

// WriteTrends persists the two-column keyword trends artifact.
func WriteTrends(path string, a *Analysis) error {
	rows := make([][]string, 0, len(a.Trends))
	for _, t := range a.Trends {
		rows = append(rows, []string{t.Positive, t.Negative})
	}
	return report.WriteCSV(path, trendsHeader, rows)
}
