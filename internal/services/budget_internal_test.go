package services

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/brickline/brickline-backend/internal/domain"
)

func TestBuildBreakdownRows(t *testing.T) {
	codeA := uuid.New()
	codeB := uuid.New()
	codeC := uuid.New()

	lines := []*types.BudgetLine{
		{CostCodeID: ptrUUID(codeA), AmountCents: 500000},
		{CostCodeID: ptrUUID(codeA), AmountCents: 100000},
		{CostCodeID: ptrUUID(codeB), AmountCents: 200000},
		{CostCodeID: nil, AmountCents: 50000},
	}
	adjustments := map[uuid.UUID]int64{codeA: 50000}
	committed := map[uuid.UUID]int64{codeA: 300000, codeC: 25000}
	actual := map[uuid.UUID]int64{codeB: 80000}

	rows := buildBreakdownRows(lines, adjustments, committed, actual)

	byBucket := make(map[uuid.UUID]BreakdownRow)
	for _, r := range rows {
		byBucket[costCodeBucket(r.CostCodeID)] = r
	}

	a := byBucket[codeA]
	if a.BudgetCents != 600000 || a.COAdjustmentCents != 50000 || a.AdjustedBudgetCents != 650000 {
		t.Fatalf("codeA row = %+v, want budget 600000 adj 50000 adjusted 650000", a)
	}
	if a.CommittedCents != 300000 {
		t.Fatalf("codeA committed = %d, want 300000", a.CommittedCents)
	}

	b := byBucket[codeB]
	if b.AdjustedBudgetCents != 200000 || b.ActualCents != 80000 {
		t.Fatalf("codeB row = %+v, want adjusted 200000 actual 80000", b)
	}

	// Spend against a never-budgeted code still gets a visible row.
	c, ok := byBucket[codeC]
	if !ok {
		t.Fatalf("expected a row for unbudgeted codeC")
	}
	if c.BudgetCents != 0 || c.CommittedCents != 25000 {
		t.Fatalf("codeC row = %+v, want budget 0 committed 25000", c)
	}

	un := byBucket[uuid.Nil]
	if un.BudgetCents != 50000 {
		t.Fatalf("unallocated budget = %d, want 50000", un.BudgetCents)
	}
	if rows[len(rows)-1].CostCodeID != nil {
		t.Fatalf("unallocated bucket should sort last")
	}
}

func TestBuildBreakdownRowsAdjustedAlwaysSum(t *testing.T) {
	codeA := uuid.New()
	rows := buildBreakdownRows(
		[]*types.BudgetLine{{CostCodeID: ptrUUID(codeA), AmountCents: 100000}},
		map[uuid.UUID]int64{codeA: -30000},
		nil, nil,
	)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	// Deductive change orders subtract from the adjusted view.
	if rows[0].AdjustedBudgetCents != 70000 {
		t.Fatalf("adjusted = %d, want 70000", rows[0].AdjustedBudgetCents)
	}
}

func TestSumAdjustmentsByCostCode(t *testing.T) {
	codeA := uuid.New()
	orders := []*types.ChangeOrder{
		{Lines: []types.ChangeOrderLine{
			{CostCodeID: ptrUUID(codeA), AmountCents: 50000},
			{CostCodeID: nil, AmountCents: -10000},
		}},
		{Lines: []types.ChangeOrderLine{
			{CostCodeID: ptrUUID(codeA), AmountCents: -20000},
		}},
	}

	got := sumAdjustmentsByCostCode(orders)

	if got[codeA] != 30000 {
		t.Fatalf("codeA adjustment = %d, want 30000", got[codeA])
	}
	if got[uuid.Nil] != -10000 {
		t.Fatalf("unallocated adjustment = %d, want -10000", got[uuid.Nil])
	}
}
