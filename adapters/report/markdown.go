package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"toypal/domain/run"
	"toypal/domain/study"
	"toypal/domain/verdict"
)

// ReportData is everything the clinical summary renders. Results may be
// partial (crashed queries omit their row); the builder renders what is
// there and never fails on gaps.
type ReportData struct {
	Manifest    run.Manifest
	Executive   study.Executive
	Perspective study.Perspective
	Results     verdict.Table
}

var groupOrder = []verdict.Group{
	verdict.GroupEfficiency,
	verdict.GroupDrivers,
	verdict.GroupMechanisms,
	verdict.GroupPredictions,
}

// BuildMarkdown renders the clinical summary as markdown.
func BuildMarkdown(data ReportData) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# ToyPal Clinical Summary\n\n")
	fmt.Fprintf(&b, "Run `%s` · source `%s`\n\n", data.Manifest.RunID, data.Manifest.SourcePath)
	fmt.Fprintf(&b, "Started %s, finished %s (%s).\n\n",
		data.Manifest.StartedAt.Time().Format("2006-01-02 15:04:05"),
		data.Manifest.FinishedAt.Time().Format("2006-01-02 15:04:05"),
		data.Manifest.Duration())

	b.WriteString("## Cohort\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Participants | %d |\n", data.Executive.Participants)
	fmt.Fprintf(&b, "| Sessions analyzed | %d |\n", data.Executive.Sessions)
	fmt.Fprintf(&b, "| Raw rows | %d |\n", data.Manifest.RawRows)
	fmt.Fprintf(&b, "| Dropped rows | %d |\n", data.Manifest.DroppedRows)
	fmt.Fprintf(&b, "| Clean rows | %d |\n\n", data.Manifest.CleanRows)

	b.WriteString("## Headline Metrics\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Avg social impact (Q26) | %.2f |\n", data.Executive.AvgSocialImpact)
	fmt.Fprintf(&b, "| Overall improvement slope | %+.3f / session |\n", data.Executive.OverallSlope)
	fmt.Fprintf(&b, "| Cohen's d (first vs last session) | %.2f (%s) |\n",
		data.Executive.CohensD, data.Executive.EffectSize)
	fmt.Fprintf(&b, "| Response-time efficiency gain | %.1f%% |\n\n", data.Executive.EfficiencyGain)

	b.WriteString("## Statistical Answers\n\n")
	for _, g := range groupOrder {
		rows := rowsInGroup(data.Results, g)
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", g)
		b.WriteString("| ID | Query | Stat | P-Value | Result |\n|---|---|---|---|---|\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				r.ID, r.Query, formatStat(r.Stat), formatPValue(r.PValue), r.Result)
		}
		b.WriteString("\n")
	}
	if emitted, defined := data.Manifest.QueriesEmitted, data.Manifest.QueriesDefined; emitted < defined {
		fmt.Fprintf(&b, "_%d of %d queries produced a row; the rest are pending._\n\n",
			emitted, defined)
	}

	if len(data.Perspective.Points) > 0 {
		b.WriteString("## Parent vs Therapist Perspective\n\n")
		b.WriteString("| Session | Parent mean | Therapist mean |\n|---|---|---|\n")
		for _, p := range data.Perspective.Points {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", p.Session,
				perspectiveCell(p.Parent), perspectiveCell(p.Therapist))
		}
		fmt.Fprintf(&b, "\nMean rater gap: %.2f points.\n", data.Perspective.MeanGap)
	}

	return b.Bytes()
}

// RenderHTML converts the markdown summary into a standalone HTML page.
func RenderHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse(md)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Title: "ToyPal Clinical Summary",
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage,
	})
	return markdown.Render(doc, r)
}

// WriteReport renders ReportData to HTML and writes it atomically.
func WriteReport(path string, data ReportData) error {
	return atomicWrite(path, RenderHTML(BuildMarkdown(data)))
}

func rowsInGroup(t verdict.Table, g verdict.Group) []verdict.ResultRow {
	var out []verdict.ResultRow
	for _, r := range t.Rows {
		if r.Group == g {
			out = append(out, r)
		}
	}
	return out
}

func perspectiveCell(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
