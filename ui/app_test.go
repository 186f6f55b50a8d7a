package ui

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"toypal/adapters/report"
	"toypal/domain/core"
	"toypal/domain/study"
	"toypal/domain/verdict"
	"toypal/internal/config"
)

func testApp(t *testing.T) (*App, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Paths: config.PathConfig{
			DataDir:      dir,
			SilverFile:   filepath.Join(dir, "silver.csv"),
			StatsFile:    filepath.Join(dir, "results.csv"),
			ManifestFile: filepath.Join(dir, "run_manifest.json"),
		},
	}
	return NewApp(cfg), cfg
}

func writeTestResults(t *testing.T, cfg *config.Config) {
	t.Helper()
	table := &verdict.Table{Rows: []verdict.ResultRow{
		{ID: "Q1", Group: verdict.GroupEfficiency, Query: "Social Impact Trend",
			Stat: 0.82, PValue: 0.003, Result: verdict.VerdictSignificant},
		{ID: "Q4", Group: verdict.GroupDrivers, Query: "Stronger Driver",
			Stat: 0.64, PValue: math.NaN(), Result: "Home Application"},
	}}
	if err := report.WriteResults(cfg.Paths.StatsFile, table); err != nil {
		t.Fatal(err)
	}
}

func writeTestSilver(t *testing.T, cfg *config.Config) {
	t.Helper()
	rows := []study.SessionRecord{
		{ParticipantID: "101", SessionNumber: 1, Age: 7, Gender: "Male",
			SubmittedBy: study.RaterParent, StoryTheme: "Space",
			Scores: scoreMap(4, 3)},
		{ParticipantID: "101", SessionNumber: 2, Age: 7, Gender: "Male",
			SubmittedBy: study.RaterTherapist, StoryTheme: "Space",
			Scores: scoreMap(5, 4)},
		{ParticipantID: "102", SessionNumber: 1, Age: 9, Gender: "Female",
			SubmittedBy: study.RaterParent, StoryTheme: "Animals",
			Scores: scoreMap(3, 5)},
	}
	ds := study.NewDataset(rows, map[core.ColumnKey]bool{
		study.ColEngagement:   true,
		study.ColSocialImpact: true,
	})
	if err := report.WriteSilver(cfg.Paths.SilverFile, ds); err != nil {
		t.Fatal(err)
	}
}

func scoreMap(engagement, impact float64) map[core.ColumnKey]float64 {
	return map[core.ColumnKey]float64{
		study.ColEngagement:   engagement,
		study.ColSocialImpact: impact,
	}
}

func get(t *testing.T, app *App, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("bad JSON response: %v\n%s", err, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	app, _ := testApp(t)
	rec := get(t, app, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestResults_UnavailableBeforePipeline(t *testing.T) {
	app, _ := testApp(t)
	rec := get(t, app, "/api/results")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestResults_NaNPValueStillDecodable(t *testing.T) {
	app, cfg := testApp(t)
	writeTestResults(t, cfg)

	rec := get(t, app, "/api/results")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var table verdict.Table
	decode(t, rec, &table)
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	row, ok := table.Lookup("Q4")
	if !ok {
		t.Fatal("Q4 row missing")
	}
	if row.PValue != -1 {
		t.Errorf("expected sentinel p-value -1, got %f", row.PValue)
	}
}

func TestResultByID(t *testing.T) {
	app, cfg := testApp(t)
	writeTestResults(t, cfg)

	rec := get(t, app, "/api/results/Q1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var row verdict.ResultRow
	decode(t, rec, &row)
	if row.ID != "Q1" || row.Result != verdict.VerdictSignificant {
		t.Errorf("unexpected row: %+v", row)
	}
}

func TestResultByID_UnknownIsPending(t *testing.T) {
	app, cfg := testApp(t)
	writeTestResults(t, cfg)

	rec := get(t, app, "/api/results/Q99")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["status"] != "pending" || body["message"] != "Calculation pending..." {
		t.Errorf("unexpected pending body: %v", body)
	}
}

func TestResultByID_NaNPValueSanitized(t *testing.T) {
	app, cfg := testApp(t)
	writeTestResults(t, cfg)

	rec := get(t, app, "/api/results/Q4")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var row verdict.ResultRow
	decode(t, rec, &row)
	if row.PValue != -1 {
		t.Errorf("expected sentinel p-value -1, got %f", row.PValue)
	}
}

func TestDrivers_GroupsSplit(t *testing.T) {
	app, cfg := testApp(t)
	writeTestResults(t, cfg)

	rec := get(t, app, "/api/drivers")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Drivers    []verdict.ResultRow `json:"drivers"`
		Mechanisms []verdict.ResultRow `json:"mechanisms"`
	}
	decode(t, rec, &body)
	if len(body.Drivers) != 1 || body.Drivers[0].ID != "Q4" {
		t.Errorf("drivers group wrong: %+v", body.Drivers)
	}
	if len(body.Mechanisms) != 0 {
		t.Errorf("mechanisms should be empty: %+v", body.Mechanisms)
	}
}

func TestParticipants(t *testing.T) {
	app, cfg := testApp(t)
	writeTestSilver(t, cfg)

	rec := get(t, app, "/api/participants")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Participants []struct {
			ID       string `json:"id"`
			Sessions int    `json:"sessions"`
		} `json:"participants"`
	}
	decode(t, rec, &body)
	if len(body.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(body.Participants))
	}
	if body.Participants[0].ID != "101" || body.Participants[0].Sessions != 2 {
		t.Errorf("unexpected first participant: %+v", body.Participants[0])
	}
}

func TestParticipantDetail_Unknown(t *testing.T) {
	app, cfg := testApp(t)
	writeTestSilver(t, cfg)

	rec := get(t, app, "/api/participants/999")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestParticipantDetail_OnlyPresentScores(t *testing.T) {
	app, cfg := testApp(t)
	writeTestSilver(t, cfg)

	rec := get(t, app, "/api/participants/101")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Sessions []struct {
			Session int                `json:"session"`
			Scores  map[string]float64 `json:"scores"`
		} `json:"sessions"`
	}
	decode(t, rec, &body)
	if len(body.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(body.Sessions))
	}
	s := body.Sessions[0]
	if s.Scores[string(study.ColEngagement)] != 4 {
		t.Errorf("engagement score wrong: %v", s.Scores)
	}
	if _, ok := s.Scores[string(study.ColDistress)]; ok {
		t.Error("absent column leaked into detail view")
	}
}
