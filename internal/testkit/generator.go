// Package testkit generates deterministic synthetic study data. The cohort
// embeds the clinical relationships the battery is built to detect, so
// end-to-end runs over generated data produce stable, non-trivial answers.
package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"toypal/adapters/excel"
	"toypal/adapters/report"
	"toypal/domain/study"
)

// CohortConfig configures the synthetic cohort generator.
type CohortConfig struct {
	Participants int   `json:"participants"`
	Sessions     int   `json:"sessions"`
	Seed         int64 `json:"seed"`
}

// DefaultCohortConfig matches the reference study arm.
func DefaultCohortConfig() CohortConfig {
	return CohortConfig{Participants: 30, Sessions: 14, Seed: 42}
}

// bronzeHeaders is the generator-era raw export schema.
var bronzeHeaders = []string{
	"Participant_ID", "Session_Number", "Age", "Gender", "Submitted_By",
	"Story_Theme",
	"Q1_Engagement", "Q2_Personalization", "Q3_Emotional_Connection",
	"Q4_Verbal_Participation", "Q7_Sign_Of_Enjoyment", "Q8_Distress",
	"Q9_Initiated_Interactions", "Q11_Creativity", "Q13_Relationship_Impact",
	"Q15_Response_Time_Min", "Q18_Theme_Understanding", "Q20_Home_Application",
	"Q21_Potential_Confidence", "Q22_Generalization", "Q25_Real_Life_Link",
	"Q26_Social_Impact_Score", "Q27_Success_Percentage", "Notes_Observations",
}

var storyThemes = []string{"Cooking", "Space", "Animals", "School", "Travel"}

var positiveNotes = []string{
	"Very engaged today, smiled often and initiated play on his own.",
	"Stayed calm and focused through the whole story, shared toys afterwards.",
	"Excited about the theme, laughed and seemed genuinely confident.",
	"Big breakthrough, initiated conversation and was cooperative throughout.",
	"Curious and responsive, clearly improved compared to earlier sessions.",
}

var negativeNotes = []string{
	"Frustrated early on, became withdrawn and refused to continue.",
	"Visibly distressed, crying before the session, hard to re-engage.",
	"Agitated and overwhelmed by the noise, avoided eye contact.",
	"Struggled with transitions, near meltdown when the story ended.",
	"Anxious and resistant today, mostly disengaged from the toy.",
}

var neutralNotes = []string{
	"Session completed as planned, nothing notable either way.",
	"Average session, attention drifted but returned on prompting.",
	"Participated at the usual level, no marked change observed.",
}

// CohortGenerator produces a raw bronze table with embedded clinical
// trajectories: severity-dependent baselines, per-participant learning
// rates, and the item-to-item correlations the study measures.
type CohortGenerator struct {
	config CohortConfig
	rng    *rand.Rand
}

func NewCohortGenerator(config CohortConfig) *CohortGenerator {
	return &CohortGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the full cohort table in the v1 export schema.
func (g *CohortGenerator) Generate() *excel.RawTable {
	table := &excel.RawTable{Headers: bronzeHeaders}
	for i := 0; i < g.config.Participants; i++ {
		pid := fmt.Sprintf("%d", 101+i)
		table.Rows = append(table.Rows, g.participantJourney(pid)...)
	}
	return table
}

// WriteBronze generates the cohort and persists it as the bronze artifact.
func (g *CohortGenerator) WriteBronze(path string) (int, error) {
	table := g.Generate()
	rows := make([][]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		row := make([]string, len(table.Headers))
		for i, h := range table.Headers {
			row[i] = r[h]
		}
		rows = append(rows, row)
	}
	if err := report.WriteCSV(path, table.Headers, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// participantJourney generates all sessions for one participant.
func (g *CohortGenerator) participantJourney(pid string) []excel.RawRow {
	age := 4 + g.rng.Intn(12)
	gender := "Male"
	if g.rng.Float64() < 0.3 {
		gender = "Female"
	}
	severity := g.randomSeverity()

	baseEngagement := map[int]float64{1: 4.0, 2: 3.0, 3: 2.0}[severity]
	baseResponseMin := map[int]float64{1: 1.0, 2: 2.0, 3: 3.5}[severity]

	learningRate := 0.4
	if age < 8 {
		learningRate = 0.5
	}
	if severity == 3 {
		learningRate *= 0.6
	}

	var rows []excel.RawRow
	for session := 1; session <= g.config.Sessions; session++ {
		rows = append(rows, g.sessionRow(pid, session, age, gender,
			baseEngagement, baseResponseMin, learningRate))
	}
	return rows
}

func (g *CohortGenerator) sessionRow(pid string, session, age int, gender string,
	baseEngagement, baseResponseMin, learningRate float64) excel.RawRow {

	progress := float64(session) / float64(g.config.Sessions)
	theme := storyThemes[g.rng.Intn(len(storyThemes))]

	// Item correlations embedded on purpose: personalization drives
	// initiation and enjoyment, creativity drives confidence, home
	// application drives social impact, initiation drives relationship.
	personalization := clip(g.normal(3.8, 1.0), 1, 5)
	initiation := clip(personalization*0.8+progress*1.5+g.normal(0, 0.5), 1, 5)
	enjoyment := clip(personalization*0.8+g.normal(0, 0.4), 1, 4)
	creativity := clip(g.normal(3, 1)+progress*1.5, 1, 5)
	confidence := clip(creativity*0.9+g.normal(0, 0.4), 1, 5)
	relationship := clip(initiation*0.8+g.normal(0, 0.5), 1, 5)
	homeApp := clip(g.normal(3, 1)+progress*2, 1, 5)
	socialImpact := clip(baseEngagement+homeApp*0.8+float64(session)*0.2, 1, 10)
	engagement := clip(baseEngagement+progress*1.5+g.normal(0, 0.5), 1, 5)
	emotionalConn := clip(g.normal(3, 1)+progress*1.2, 1, 5)
	verbal := clip(g.normal(3, 1)+float64(session)*0.3, 1, 10)
	distress := clip(4.5-float64(session)*0.3*learningRate, 1, 5)
	themeUnd := clip(g.normal(3.5, 1)+progress, 1, 5)
	generalization := clip(themeUnd*0.7+homeApp*0.3, 1, 5)
	realLife := clip(g.normal(3, 1), 1, 5)
	success := clip(realLife*15+20+float64(session)*2, 0, 100)

	responseMin := math.Max(0.1, baseResponseMin-float64(session)*0.1*learningRate+g.normal(0, 0.2))

	return excel.RawRow{
		"Participant_ID":            pid,
		"Session_Number":            fmt.Sprintf("%d", session),
		"Age":                       fmt.Sprintf("%d", age),
		"Gender":                    gender,
		"Submitted_By":              g.rater(session),
		"Story_Theme":               theme,
		"Q1_Engagement":             itoaf(engagement),
		"Q2_Personalization":        itoaf(personalization),
		"Q3_Emotional_Connection":   itoaf(emotionalConn),
		"Q4_Verbal_Participation":   itoaf(verbal),
		"Q7_Sign_Of_Enjoyment":      itoaf(enjoyment),
		"Q8_Distress":               itoaf(distress),
		"Q9_Initiated_Interactions": itoaf(initiation),
		"Q11_Creativity":            itoaf(creativity),
		"Q13_Relationship_Impact":   itoaf(relationship),
		"Q15_Response_Time_Min":     g.duration(responseMin, session),
		"Q18_Theme_Understanding":   itoaf(themeUnd),
		"Q20_Home_Application":      itoaf(homeApp),
		"Q21_Potential_Confidence":  itoaf(confidence),
		"Q22_Generalization":        itoaf(generalization),
		"Q25_Real_Life_Link":        itoaf(realLife),
		"Q26_Social_Impact_Score":   itoaf(socialImpact),
		"Q27_Success_Percentage":    fmt.Sprintf("%.0f%%", success),
		"Notes_Observations":        g.note(distress, progress),
	}
}

// duration renders response time in the mixed units real exports carry:
// minutes on even sessions, seconds on odd ones.
func (g *CohortGenerator) duration(minutes float64, session int) string {
	if session%2 == 0 {
		return fmt.Sprintf("%.2f Minutes", minutes)
	}
	return fmt.Sprintf("%.0f seconds", minutes*60)
}

// rater alternates submissions so both perspectives appear in every
// participant's record.
func (g *CohortGenerator) rater(session int) string {
	if session%2 == 0 {
		return study.RaterTherapist
	}
	return study.RaterParent
}

// note picks a clinical note whose tone tracks the session's state: high
// distress reads negative, late low-distress sessions read positive.
func (g *CohortGenerator) note(distress, progress float64) string {
	switch {
	case distress > 3.5:
		return negativeNotes[g.rng.Intn(len(negativeNotes))]
	case progress > 0.5 && distress < 2.5:
		return positiveNotes[g.rng.Intn(len(positiveNotes))]
	default:
		return neutralNotes[g.rng.Intn(len(neutralNotes))]
	}
}

func (g *CohortGenerator) randomSeverity() int {
	r := g.rng.Float64()
	switch {
	case r < 0.3:
		return 1
	case r < 0.8:
		return 2
	default:
		return 3
	}
}

func (g *CohortGenerator) normal(mean, sd float64) float64 {
	return mean + g.rng.NormFloat64()*sd
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, math.Floor(v)))
}

// itoaf renders a clipped ordinal score as the integer string raw exports use.
func itoaf(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
