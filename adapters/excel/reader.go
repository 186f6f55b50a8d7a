package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"toypal/internal"
	"toypal/internal/errors"
)

// DataReader loads the bronze session table from an Excel or CSV file.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      *internal.Logger
}

// NewDataReader creates a reader for the given path; the file type is chosen
// by extension, defaulting to xlsx.
func NewDataReader(filePath string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		log:      internal.DefaultLogger,
	}
}

// ReadTable reads the source file into a raw string table.
func (r *DataReader) ReadTable() (*RawTable, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.MissingInput(r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readExcel() (*RawTable, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open Excel file %s", r.filePath)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("excel file must have a header row and at least one data row")
	}

	r.log.Debug("read %d rows from sheet %s of %s", len(rows), sheet, r.filePath)
	return r.buildTable(rows), nil
}

func (r *DataReader) readCSV() (*RawTable, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV file %s", r.filePath)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; normalization handles gaps
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read CSV file %s", r.filePath)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("csv file must have a header row and at least one data row")
	}

	r.log.Debug("read %d rows from %s", len(rows), r.filePath)
	return r.buildTable(rows), nil
}

// buildTable converts raw string rows into a header-keyed table.
func (r *DataReader) buildTable(rows [][]string) *RawTable {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, h := range headerRow {
		headers[i] = strings.TrimSpace(h)
	}

	dataRows := make([]RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRow, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.log.Info("%s source processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(dataRows))
	return &RawTable{Headers: headers, Rows: dataRows}
}
