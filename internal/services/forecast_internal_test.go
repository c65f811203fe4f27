package services

import "testing"

func TestBuildForecastRowSignConvention(t *testing.T) {
	// Committed already exceeds the adjusted budget: nothing remains, the
	// projection is the committed figure, and the variance is negative (over).
	src := &BreakdownRow{
		AdjustedBudgetCents: 100000,
		CommittedCents:      120000,
		ActualCents:         80000,
	}
	row := buildForecastRow(src, 0, false)

	if row.ProjectedCents != 120000 {
		t.Fatalf("projected = %d, want 120000", row.ProjectedCents)
	}
	if row.EstimateRemainingCents != 0 {
		t.Fatalf("remaining = %d, want 0", row.EstimateRemainingCents)
	}
	if row.ProjectedFinalCents != 120000 {
		t.Fatalf("final = %d, want 120000", row.ProjectedFinalCents)
	}
	if row.VarianceAtCompletionCents != -20000 {
		t.Fatalf("vac = %d, want -20000", row.VarianceAtCompletionCents)
	}
}

func TestBuildForecastRowUnderBudget(t *testing.T) {
	src := &BreakdownRow{
		AdjustedBudgetCents: 100000,
		CommittedCents:      40000,
		ActualCents:         60000,
	}
	row := buildForecastRow(src, 0, false)

	if row.ProjectedCents != 60000 {
		t.Fatalf("projected = %d, want 60000 (max of committed/actual)", row.ProjectedCents)
	}
	if row.EstimateRemainingCents != 40000 {
		t.Fatalf("remaining = %d, want 40000", row.EstimateRemainingCents)
	}
	if row.ProjectedFinalCents != 100000 {
		t.Fatalf("final = %d, want 100000", row.ProjectedFinalCents)
	}
	if row.VarianceAtCompletionCents != 0 {
		t.Fatalf("vac = %d, want 0", row.VarianceAtCompletionCents)
	}
}

func TestBuildForecastRowManualOverride(t *testing.T) {
	src := &BreakdownRow{
		AdjustedBudgetCents: 100000,
		CommittedCents:      60000,
		ActualCents:         30000,
	}
	row := buildForecastRow(src, 10000, true)

	if !row.RemainingOverridden {
		t.Fatalf("expected override flag set")
	}
	if row.EstimateRemainingCents != 10000 {
		t.Fatalf("remaining = %d, want override 10000", row.EstimateRemainingCents)
	}
	if row.ProjectedFinalCents != 70000 {
		t.Fatalf("final = %d, want 70000", row.ProjectedFinalCents)
	}
	if row.VarianceAtCompletionCents != 30000 {
		t.Fatalf("vac = %d, want 30000 (under budget stays positive)", row.VarianceAtCompletionCents)
	}
}

func TestBuildForecastRowZeroOverride(t *testing.T) {
	// An explicit zero override means "nothing left to spend" and must not
	// fall back to the derived default.
	src := &BreakdownRow{
		AdjustedBudgetCents: 100000,
		CommittedCents:      50000,
	}
	row := buildForecastRow(src, 0, true)

	if row.EstimateRemainingCents != 0 {
		t.Fatalf("remaining = %d, want 0", row.EstimateRemainingCents)
	}
	if row.VarianceAtCompletionCents != 50000 {
		t.Fatalf("vac = %d, want 50000", row.VarianceAtCompletionCents)
	}
}
