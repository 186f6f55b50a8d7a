package report

import (
	"math"
	"strconv"

	"toypal/domain/core"
	"toypal/domain/study"
)

// WriteSilver persists the canonical dataset as the silver artifact. Only
// columns the source actually carried are written: a column absent from
// bronze must stay absent from silver, or re-ingesting the file would
// resurrect it as a wall of zeros and mask the degradation the battery is
// supposed to report. Missing duration/percentage values render as empty
// cells for the same reason.
func WriteSilver(path string, ds *study.Dataset) error {
	header := []string{
		string(study.ColParticipantID),
		string(study.ColSessionNumber),
		string(study.ColAge),
		string(study.ColGender),
		string(study.ColSubmittedBy),
		string(study.ColStoryTheme),
	}
	var scoreCols []core.ColumnKey
	for _, col := range study.ScoreColumns {
		if ds.HasColumn(col) {
			scoreCols = append(scoreCols, col)
			header = append(header, string(col))
		}
	}
	header = append(header, string(study.ColNotes))

	rows := make([][]string, 0, ds.Len())
	for _, r := range ds.Rows() {
		row := []string{
			r.ParticipantID.String(),
			strconv.Itoa(r.SessionNumber),
			formatCell(r.Age),
			r.Gender,
			r.SubmittedBy,
			r.StoryTheme,
		}
		for _, col := range scoreCols {
			row = append(row, formatCell(r.Score(col)))
		}
		row = append(row, r.Notes)
		rows = append(rows, row)
	}
	return WriteCSV(path, header, rows)
}

func formatCell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
