package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"toypal/domain/core"
	"toypal/domain/study"
)

func TestWriteSilver_OnlyPresentColumns(t *testing.T) {
	rows := []study.SessionRecord{
		{
			ParticipantID: "P001",
			SessionNumber: 1,
			Age:           7,
			Gender:        "Male",
			SubmittedBy:   study.RaterParent,
			StoryTheme:    "Space",
			Notes:         "calm and engaged",
			Scores: map[core.ColumnKey]float64{
				study.ColEngagement:   4,
				study.ColSocialImpact: 3,
			},
		},
	}
	ds := study.NewDataset(rows, map[core.ColumnKey]bool{
		study.ColEngagement:   true,
		study.ColSocialImpact: true,
	})

	path := filepath.Join(t.TempDir(), "silver.csv")
	if err := WriteSilver(path, ds); err != nil {
		t.Fatalf("WriteSilver failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	header := strings.Join(records[0], ",")
	if !strings.Contains(header, string(study.ColEngagement)) {
		t.Error("present column missing from silver header")
	}
	if strings.Contains(header, string(study.ColDistress)) {
		t.Error("absent column resurrected in silver header")
	}
	// Identity columns plus the two present scores plus notes.
	if want := 6 + 2 + 1; len(records[0]) != want {
		t.Errorf("expected %d columns, got %d: %v", want, len(records[0]), records[0])
	}
}

func TestWriteSilver_MissingValuesAreEmptyCells(t *testing.T) {
	rows := []study.SessionRecord{
		{
			ParticipantID: "P001",
			SessionNumber: 1,
			Scores: map[core.ColumnKey]float64{
				study.ColEngagement: 5,
			},
		},
		{
			ParticipantID: "P002",
			SessionNumber: 1,
			Scores:        map[core.ColumnKey]float64{},
		},
	}
	ds := study.NewDataset(rows, map[core.ColumnKey]bool{
		study.ColEngagement: true,
	})

	path := filepath.Join(t.TempDir(), "silver.csv")
	if err := WriteSilver(path, ds); err != nil {
		t.Fatalf("WriteSilver failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	colIdx := -1
	for i, h := range records[0] {
		if h == string(study.ColEngagement) {
			colIdx = i
		}
	}
	if colIdx < 0 {
		t.Fatal("engagement column not found")
	}
	if records[1][colIdx] != "5" {
		t.Errorf("expected 5, got %q", records[1][colIdx])
	}
	if records[2][colIdx] != "" {
		t.Errorf("expected empty cell for missing score, got %q", records[2][colIdx])
	}
}
