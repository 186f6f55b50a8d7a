package nlp

import (
	"fmt"
	"math"
	"sort"
	"strings"

	mstats "github.com/montanaflynn/stats"

	"toypal/domain/core"
	"toypal/domain/study"
	"toypal/internal"
)

// SessionSentiment is one scored session note, keyed the same way the result
// table keys participants so the dashboard can join them.
type SessionSentiment struct {
	ParticipantID core.ParticipantID `json:"participant_id"`
	SessionNumber int                `json:"session_number"`
	StoryTheme    string             `json:"story_theme"`
	MasterText    string             `json:"master_text"`
	Label         string             `json:"sentiment_label"`
	Score         float64            `json:"sentiment_score"`
}

// KeywordTrend pairs the most frequent behavioral words from positive and
// negative sessions, row-aligned for the two-column trends artifact.
type KeywordTrend struct {
	Positive string `json:"positive_behavior"`
	Negative string `json:"negative_behavior"`
}

// Analysis is the full NLP gold output for a run.
type Analysis struct {
	Sessions []SessionSentiment
	Trends   []KeywordTrend
	// MeanConfidence is the cohort-wide mean sentiment confidence.
	MeanConfidence float64
}

// minKeywordLen drops filler words; only longer behavioral terms trend.
const minKeywordLen = 5

// topKeywords caps each trend column.
const topKeywords = 10

// Engine scores session notes and extracts keyword trends.
type Engine struct {
	lex *Lexicon
	log *internal.Logger
}

func NewEngine() *Engine {
	return &Engine{lex: NewLexicon(), log: internal.DefaultLogger}
}

// Analyze scores every session in the dataset. Sessions without notes still
// get a row (Neutral over the master text) so the dashboard's per-participant
// explorer never has gaps.
func (e *Engine) Analyze(ds *study.Dataset) *Analysis {
	rows := ds.Rows()
	out := &Analysis{Sessions: make([]SessionSentiment, 0, len(rows))}

	posCounts := map[string]int{}
	negCounts := map[string]int{}
	var confidences []float64

	for _, r := range rows {
		text := masterText(r)
		label, score := e.lex.Score(text)
		out.Sessions = append(out.Sessions, SessionSentiment{
			ParticipantID: r.ParticipantID,
			SessionNumber: r.SessionNumber,
			StoryTheme:    r.StoryTheme,
			MasterText:    text,
			Label:         label,
			Score:         score,
		})
		confidences = append(confidences, score)

		switch label {
		case LabelPositive:
			countWords(posCounts, r.Notes)
		case LabelNegative:
			countWords(negCounts, r.Notes)
		}
	}

	out.Trends = alignTrends(topWords(posCounts), topWords(negCounts))
	if mean, err := mstats.Mean(confidences); err == nil {
		out.MeanConfidence = mean
	}

	e.log.Info("nlp: scored %d sessions, %d trend rows", len(out.Sessions), len(out.Trends))
	return out
}

// masterText combines the session's structured context with the free-text
// note into the single narrative the explorer view shows.
func masterText(r study.SessionRecord) string {
	var b strings.Builder
	if r.StoryTheme != "" {
		fmt.Fprintf(&b, "Theme: %s. ", r.StoryTheme)
	}
	if v := r.Score(study.ColEngagement); !math.IsNaN(v) {
		fmt.Fprintf(&b, "Engagement %.0f/5. ", v)
	}
	if v := r.Score(study.ColSuccessRate); !math.IsNaN(v) {
		fmt.Fprintf(&b, "Success %.0f%%. ", v)
	}
	b.WriteString(strings.TrimSpace(r.Notes))
	return strings.TrimSpace(b.String())
}

func countWords(counts map[string]int, text string) {
	for _, w := range Tokenize(text) {
		if len(w) >= minKeywordLen {
			counts[w]++
		}
	}
}

// topWords returns the highest-frequency words, count descending then
// alphabetical so output is stable across runs.
func topWords(counts map[string]int) []string {
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > topKeywords {
		words = words[:topKeywords]
	}
	return words
}

func alignTrends(pos, neg []string) []KeywordTrend {
	n := len(pos)
	if len(neg) > n {
		n = len(neg)
	}
	trends := make([]KeywordTrend, n)
	for i := 0; i < n; i++ {
		if i < len(pos) {
			trends[i].Positive = pos[i]
		}
		if i < len(neg) {
			trends[i].Negative = neg[i]
		}
	}
	return trends
}
