package excel

// RawRow represents one raw source row as header→cell string pairs.
type RawRow map[string]string

// RawTable represents the complete raw source table before normalization.
type RawTable struct {
	Headers []string // Column headers, in source order
	Rows    []RawRow // Data rows
}
