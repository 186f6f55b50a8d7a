package study

import (
	"math"
	"testing"

	"toypal/domain/core"
)

func testRows() []SessionRecord {
	return []SessionRecord{
		{ParticipantID: "101", SessionNumber: 1, Scores: map[core.ColumnKey]float64{
			ColPersonalization: 4, ColEnjoyment: 3}},
		{ParticipantID: "101", SessionNumber: 2, Scores: map[core.ColumnKey]float64{
			ColPersonalization: 2, ColEnjoyment: 1}},
		{ParticipantID: "102", SessionNumber: 1, Scores: map[core.ColumnKey]float64{
			ColPersonalization: 3, ColEnjoyment: 4}},
		// Missing one side of the pair.
		{ParticipantID: "102", SessionNumber: 2, Scores: map[core.ColumnKey]float64{
			ColPersonalization: 5}},
		{ParticipantID: "103", SessionNumber: 1, Scores: map[core.ColumnKey]float64{
			ColEnjoyment: 2}},
	}
}

func testDataset() *Dataset {
	return NewDataset(testRows(), map[core.ColumnKey]bool{
		ColPersonalization: true,
		ColEnjoyment:       true,
	})
}

func TestSplitByCut_ExcludesRowsMissingEitherValue(t *testing.T) {
	high, low := testDataset().SplitByCut(ColPersonalization, HighItemCut, ColEnjoyment)

	// Rows with both values: (4,3) (2,1) (3,4). The split value at the cut
	// lands in the high group; rows missing either column are in neither.
	if len(high) != 2 {
		t.Fatalf("high group = %v, want 2 values", high)
	}
	if len(low) != 1 || low[0] != 1 {
		t.Fatalf("low group = %v, want [1]", low)
	}
}

func TestPaired_SkipsIncompleteRows(t *testing.T) {
	xs, ys := testDataset().Paired(ColPersonalization, ColEnjoyment)
	if len(xs) != 3 || len(ys) != 3 {
		t.Fatalf("expected 3 complete pairs, got %d/%d", len(xs), len(ys))
	}
}

func TestSessionPaired(t *testing.T) {
	sessions, ys := testDataset().SessionPaired(ColEnjoyment)
	if len(sessions) != 4 {
		t.Fatalf("expected 4 pairs, got %d", len(sessions))
	}
	if sessions[0] != 1 || ys[0] != 3 {
		t.Errorf("first pair = (%f, %f)", sessions[0], ys[0])
	}
}

func TestScore_AbsentIsNaN(t *testing.T) {
	r := SessionRecord{Scores: map[core.ColumnKey]float64{}}
	if !math.IsNaN(r.Score(ColEnjoyment)) {
		t.Error("absent score should read as NaN")
	}
	if r.HasScore(ColEnjoyment) {
		t.Error("absent score should not count as present")
	}
}

func TestParticipantsAndBounds(t *testing.T) {
	ds := testDataset()
	pids := ds.Participants()
	if len(pids) != 3 || pids[0] != "101" {
		t.Errorf("participants = %v", pids)
	}
	if ds.MinSession() != 1 || ds.MaxSession() != 2 {
		t.Errorf("session bounds = %d..%d", ds.MinSession(), ds.MaxSession())
	}
}

func TestEffectSizeLabel(t *testing.T) {
	cases := []struct {
		d    float64
		want string
	}{
		{1.2, "Large"},
		{-0.9, "Large"},
		{0.6, "Medium"},
		{0.2, "Small"},
	}
	for _, tc := range cases {
		if got := EffectSizeLabel(tc.d); got != tc.want {
			t.Errorf("EffectSizeLabel(%.1f) = %s, want %s", tc.d, got, tc.want)
		}
	}
}
