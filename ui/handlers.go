package ui

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"toypal/adapters/cleaning"
	"toypal/adapters/excel"
	"toypal/adapters/nlp"
	"toypal/adapters/report"
	"toypal/app"
	"toypal/domain/core"
	"toypal/domain/study"
	"toypal/domain/verdict"
	"toypal/internal"
)

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSummary joins the run manifest with the executive metrics.
func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds, err := a.loadDataset()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "silver data not available; run the pipeline first")
		return
	}

	payload := map[string]interface{}{
		"executive": app.BuildExecutive(ds),
	}
	if manifest, err := report.ReadManifest(a.cfg.Paths.ManifestFile); err == nil {
		payload["run"] = manifest
	}
	writeJSON(w, http.StatusOK, payload)
}

func (a *App) handleResults(w http.ResponseWriter, r *http.Request) {
	table, err := report.ReadResults(a.cfg.Paths.StatsFile)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "statistical results not available; run the pipeline first")
		return
	}
	rows := make([]verdict.ResultRow, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = sanitizeRow(r)
	}
	writeJSON(w, http.StatusOK, &verdict.Table{Rows: rows})
}

// handleResultByID returns one query's row. An unknown or not-yet-computed
// ID answers 404 with a pending message rather than an error page: the
// dashboard renders it as a placeholder card.
func (a *App) handleResultByID(w http.ResponseWriter, r *http.Request) {
	id := core.QueryID(chi.URLParam(r, "id"))

	table, err := report.ReadResults(a.cfg.Paths.StatsFile)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "statistical results not available; run the pipeline first")
		return
	}

	row, ok := table.Lookup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"id":      string(id),
			"status":  "pending",
			"message": "Calculation pending...",
		})
		return
	}
	writeJSON(w, http.StatusOK, sanitizeRow(row))
}

// handleEfficacy serves the efficiency query rows plus the per-session
// social impact trend the efficacy chart plots.
func (a *App) handleEfficacy(w http.ResponseWriter, r *http.Request) {
	table, err := report.ReadResults(a.cfg.Paths.StatsFile)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "statistical results not available; run the pipeline first")
		return
	}

	payload := map[string]interface{}{
		"results": groupRows(table, verdict.GroupEfficiency),
	}
	if ds, err := a.loadDataset(); err == nil {
		payload["impact_trend"] = sessionTrend(ds, study.ColSocialImpact)
		payload["response_trend"] = sessionTrend(ds, study.ColResponseTime)
	}
	writeJSON(w, http.StatusOK, payload)
}

// handleDrivers serves the driver and mechanism query rows together; the
// dashboard shows them on one view.
func (a *App) handleDrivers(w http.ResponseWriter, r *http.Request) {
	table, err := report.ReadResults(a.cfg.Paths.StatsFile)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "statistical results not available; run the pipeline first")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"drivers":     groupRows(table, verdict.GroupDrivers),
		"mechanisms":  groupRows(table, verdict.GroupMechanisms),
		"predictions": groupRows(table, verdict.GroupPredictions),
	})
}

func (a *App) handlePerspective(w http.ResponseWriter, r *http.Request) {
	ds, err := a.loadDataset()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "silver data not available; run the pipeline first")
		return
	}
	writeJSON(w, http.StatusOK, sanitizePerspective(app.BuildPerspective(ds)))
}

func (a *App) handleNLP(w http.ResponseWriter, r *http.Request) {
	ds, err := a.loadDataset()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "silver data not available; run the pipeline first")
		return
	}
	analysis := nlp.NewEngine().Analyze(ds)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions":        analysis.Sessions,
		"keyword_trends":  analysis.Trends,
		"mean_confidence": analysis.MeanConfidence,
	})
}

func (a *App) handleParticipants(w http.ResponseWriter, r *http.Request) {
	ds, err := a.loadDataset()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "silver data not available; run the pipeline first")
		return
	}

	type entry struct {
		ID       core.ParticipantID `json:"id"`
		Sessions int                `json:"sessions"`
	}
	var out []entry
	for _, pid := range ds.Participants() {
		out = append(out, entry{ID: pid, Sessions: len(ds.ParticipantRows(pid))})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"participants": out})
}

// handleParticipantDetail is the drill-down view: every session row for one
// participant with per-column scores.
func (a *App) handleParticipantDetail(w http.ResponseWriter, r *http.Request) {
	pid := core.ParticipantID(chi.URLParam(r, "id"))

	ds, err := a.loadDataset()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "silver data not available; run the pipeline first")
		return
	}

	rows := ds.ParticipantRows(pid)
	if len(rows) == 0 {
		writeError(w, http.StatusNotFound, "unknown participant")
		return
	}

	type session struct {
		Session     int                `json:"session"`
		SubmittedBy string             `json:"submitted_by"`
		StoryTheme  string             `json:"story_theme"`
		Notes       string             `json:"notes"`
		Scores      map[string]float64 `json:"scores"`
	}
	out := make([]session, 0, len(rows))
	for _, rec := range rows {
		scores := map[string]float64{}
		for _, col := range study.ScoreColumns {
			if rec.HasScore(col) {
				scores[string(col)] = rec.Score(col)
			}
		}
		out = append(out, session{
			Session:     rec.SessionNumber,
			SubmittedBy: rec.SubmittedBy,
			StoryTheme:  rec.StoryTheme,
			Notes:       rec.Notes,
			Scores:      scores,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"participant": pid,
		"sessions":    out,
	})
}

// loadDataset reads the silver artifact fresh on each request. The table is
// small and rereading keeps the API consistent with whatever the pipeline
// last wrote.
func (a *App) loadDataset() (*study.Dataset, error) {
	raw, err := excel.NewDataReader(a.cfg.Paths.SilverFile).ReadTable()
	if err != nil {
		return nil, err
	}
	return cleaning.NewNormalizer().Normalize(raw).Dataset, nil
}

// trendPoint is one session's mean for a charted column.
type trendPoint struct {
	Session int     `json:"session"`
	Mean    float64 `json:"mean"`
}

func sessionTrend(ds *study.Dataset, col core.ColumnKey) []trendPoint {
	sums := map[int]float64{}
	counts := map[int]int{}
	for _, rec := range ds.Rows() {
		if v := rec.Score(col); !math.IsNaN(v) {
			sums[rec.SessionNumber] += v
			counts[rec.SessionNumber]++
		}
	}

	var points []trendPoint
	for s := ds.MinSession(); s <= ds.MaxSession(); s++ {
		if counts[s] > 0 {
			points = append(points, trendPoint{Session: s, Mean: sums[s] / float64(counts[s])})
		}
	}
	return points
}

func groupRows(table *verdict.Table, g verdict.Group) []verdict.ResultRow {
	var out []verdict.ResultRow
	for _, r := range table.Rows {
		if r.Group == g {
			out = append(out, sanitizeRow(r))
		}
	}
	return out
}

// sanitizeRow replaces NaN values before JSON encoding; encoding/json
// rejects NaN. A negative p-value marks not-applicable to the dashboard.
func sanitizeRow(r verdict.ResultRow) verdict.ResultRow {
	if math.IsNaN(r.PValue) {
		r.PValue = -1
	}
	if math.IsNaN(r.Stat) {
		r.Stat = 0
	}
	return r
}

func sanitizePerspective(p study.Perspective) study.Perspective {
	for i, point := range p.Points {
		if math.IsNaN(point.Parent) {
			p.Points[i].Parent = 0
		}
		if math.IsNaN(point.Therapist) {
			p.Points[i].Therapist = 0
		}
	}
	return p
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		internal.DefaultLogger.Error("json encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
