package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"toypal/domain/run"
	"toypal/domain/study"
	"toypal/domain/verdict"
)

func reportFixture() ReportData {
	m := run.NewManifest("data/bronze/export.csv")
	m.QueriesDefined = 15
	m.QueriesEmitted = 15
	m.Finish()

	return ReportData{
		Manifest: *m,
		Executive: study.Executive{
			Participants:    30,
			Sessions:        14,
			AvgSocialImpact: 6.2,
			OverallSlope:    0.31,
			CohensD:         1.1,
			EffectSize:      study.EffectSizeLabel(1.1),
			EfficiencyGain:  48.7,
		},
		Perspective: study.Perspective{
			Points: []study.PerspectivePoint{
				{Session: 1, Parent: 4.0, Therapist: 3.5},
				{Session: 2, Parent: 4.5, Therapist: math.NaN()},
			},
			MeanGap: 0.5,
		},
		Results: *sampleTable(),
	}
}

func TestBuildMarkdown_SectionsAndRows(t *testing.T) {
	md := string(BuildMarkdown(reportFixture()))

	for _, want := range []string{
		"# ToyPal Clinical Summary",
		"Social Impact Trend",
		"Response Time Reduction %",
		string(verdict.GroupEfficiency),
		"n/a", // missing therapist rating
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if !strings.Contains(md, "N/A") {
		t.Error("NaN p-value should render as N/A")
	}
}

func TestRenderHTML_CompletePage(t *testing.T) {
	html := string(RenderHTML(BuildMarkdown(reportFixture())))

	if !strings.Contains(html, "<html") || !strings.Contains(html, "</html>") {
		t.Error("expected a complete page")
	}
	if !strings.Contains(html, "<table>") {
		t.Error("expected rendered tables")
	}
}

func TestWriteReport_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report", "index.html")
	if err := WriteReport(path, reportFixture()); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ToyPal Clinical Summary") {
		t.Error("report title missing")
	}
}
