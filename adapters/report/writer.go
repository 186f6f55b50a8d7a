// Package report persists and reloads the gold artifacts. All writes are
// atomic: content lands in a temp file next to the destination and is
// renamed into place, so a failed or blocked write leaves the previous
// artifact untouched and surfaces the failure verbatim.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"toypal/domain/core"
	"toypal/domain/run"
	"toypal/domain/verdict"
	"toypal/internal/errors"
)

// resultHeader is the fixed output schema the dashboard joins against.
var resultHeader = []string{"ID", "Group", "Query", "Stat", "P-Value", "Result"}

// WriteResults persists the battery output table as the gold statistical
// artifact, one row per emitted query, in definition order.
func WriteResults(path string, table *verdict.Table) error {
	rows := make([][]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		rows = append(rows, []string{
			r.ID.String(),
			string(r.Group),
			r.Query,
			formatStat(r.Stat),
			formatPValue(r.PValue),
			r.Result,
		})
	}
	return WriteCSV(path, resultHeader, rows)
}

// ReadResults loads a previously persisted result table. Rows with malformed
// numeric cells are kept with NaN statistics rather than dropped: the table
// is a join surface, not a numeric source of truth.
func ReadResults(path string) (*verdict.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.MissingInput(path)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse result table %s", path)
	}
	if len(records) < 1 {
		return &verdict.Table{}, nil
	}

	table := &verdict.Table{}
	for _, rec := range records[1:] {
		if len(rec) < 6 {
			continue
		}
		table.Rows = append(table.Rows, verdict.ResultRow{
			ID:     core.QueryID(rec[0]),
			Group:  verdict.Group(rec[1]),
			Query:  rec[2],
			Stat:   parseFloatOrNaN(rec[3]),
			PValue: parseFloatOrNaN(rec[4]),
			Result: rec[5],
		})
	}
	return table, nil
}

// WriteManifest persists the run manifest as JSON.
func WriteManifest(path string, m *run.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal run manifest")
	}
	return atomicWrite(path, data)
}

// ReadManifest loads a previously persisted run manifest.
func ReadManifest(path string) (*run.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.MissingInput(path)
	}
	var m run.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse run manifest %s", path)
	}
	return &m, nil
}

// WriteCSV atomically writes a CSV artifact.
func WriteCSV(path string, header []string, rows [][]string) error {
	var buf []byte
	{
		tmp := &csvBuffer{}
		w := csv.NewWriter(tmp)
		if err := w.Write(header); err != nil {
			return errors.Wrap(err, "failed to encode csv header")
		}
		if err := w.WriteAll(rows); err != nil {
			return errors.Wrap(err, "failed to encode csv rows")
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return errors.Wrap(err, "failed to encode csv")
		}
		buf = tmp.data
	}
	return atomicWrite(path, buf)
}

// atomicWrite writes data to path via a sibling temp file and rename. On any
// failure the temp file is removed and the prior artifact survives intact.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.OutputWrite(path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.OutputWrite(path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.OutputWrite(path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.OutputWrite(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.OutputWrite(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.OutputWrite(path, err)
	}
	return nil
}

// csvBuffer adapts a byte slice to io.Writer for the csv encoder.
type csvBuffer struct{ data []byte }

func (b *csvBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func formatStat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatPValue(p float64) string {
	if math.IsNaN(p) {
		return "N/A"
	}
	return strconv.FormatFloat(p, 'f', 6, 64)
}

func parseFloatOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// FormatStatLine renders a single row for operator logs.
func FormatStatLine(r verdict.ResultRow) string {
	return fmt.Sprintf("%-4s %-12s %-38s %10s  %s", r.ID, r.Group, r.Query, formatStat(r.Stat), r.Result)
}
