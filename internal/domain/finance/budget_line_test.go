package finance

import (
	"testing"

	"gorm.io/datatypes"
)

func TestParseMetadata(t *testing.T) {
	t.Run("empty metadata", func(t *testing.T) {
		line := &BudgetLine{}
		m, err := line.ParseMetadata()
		if err != nil {
			t.Fatalf("ParseMetadata: %v", err)
		}
		if m.EstimateRemainingCents != nil {
			t.Fatalf("expected no override, got %d", *m.EstimateRemainingCents)
		}
	})

	t.Run("override present", func(t *testing.T) {
		line := &BudgetLine{Metadata: datatypes.JSON(`{"estimate_remaining_cents": 50000}`)}
		m, err := line.ParseMetadata()
		if err != nil {
			t.Fatalf("ParseMetadata: %v", err)
		}
		if m.EstimateRemainingCents == nil || *m.EstimateRemainingCents != 50000 {
			t.Fatalf("expected override 50000, got %v", m.EstimateRemainingCents)
		}
	})

	t.Run("negative override treated as absent", func(t *testing.T) {
		line := &BudgetLine{Metadata: datatypes.JSON(`{"estimate_remaining_cents": -100}`)}
		m, err := line.ParseMetadata()
		if err != nil {
			t.Fatalf("ParseMetadata: %v", err)
		}
		if m.EstimateRemainingCents != nil {
			t.Fatalf("expected negative override dropped, got %d", *m.EstimateRemainingCents)
		}
	})

	t.Run("unknown keys ignored", func(t *testing.T) {
		line := &BudgetLine{Metadata: datatypes.JSON(`{"note": "tbd", "estimate_remaining_cents": 100}`)}
		m, err := line.ParseMetadata()
		if err != nil {
			t.Fatalf("ParseMetadata: %v", err)
		}
		if m.EstimateRemainingCents == nil || *m.EstimateRemainingCents != 100 {
			t.Fatalf("expected override 100, got %v", m.EstimateRemainingCents)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		line := &BudgetLine{Metadata: datatypes.JSON(`{`)}
		if _, err := line.ParseMetadata(); err == nil {
			t.Fatalf("expected error for malformed metadata")
		}
	})
}

func TestBudgetEditable(t *testing.T) {
	cases := []struct {
		status BudgetStatus
		want   bool
	}{
		{BudgetStatusDraft, true},
		{BudgetStatusApproved, true},
		{BudgetStatusLocked, false},
	}
	for _, tc := range cases {
		b := &Budget{Status: tc.status}
		if got := b.Editable(); got != tc.want {
			t.Fatalf("Editable() with %s = %v, want %v", tc.status, got, tc.want)
		}
	}
}
