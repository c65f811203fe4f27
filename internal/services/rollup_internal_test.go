package services

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/brickline/brickline-backend/internal/domain"
)

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }

func TestSumCommittedByCostCode(t *testing.T) {
	codeA := uuid.New()
	codeB := uuid.New()
	commitments := []*types.Commitment{
		{Lines: []types.CommitmentLine{
			{CostCodeID: ptrUUID(codeA), Quantity: 10, UnitCostCents: 1000},
			{CostCodeID: ptrUUID(codeA), Quantity: 2, UnitCostCents: 5000},
			{CostCodeID: ptrUUID(codeB), Quantity: 1, UnitCostCents: 7500},
		}},
		{Lines: []types.CommitmentLine{
			{CostCodeID: nil, Quantity: 3, UnitCostCents: 100},
		}},
	}

	got := sumCommittedByCostCode(commitments)

	if got[codeA] != 20000 {
		t.Fatalf("codeA = %d, want 20000", got[codeA])
	}
	if got[codeB] != 7500 {
		t.Fatalf("codeB = %d, want 7500", got[codeB])
	}
	if got[uuid.Nil] != 300 {
		t.Fatalf("unallocated = %d, want 300", got[uuid.Nil])
	}

	// Bucket sums reconcile with the qualifying line totals.
	var total int64
	for _, v := range got {
		total += v
	}
	if total != 27800 {
		t.Fatalf("total = %d, want 27800", total)
	}
}

func TestSumActualByCostCode(t *testing.T) {
	codeA := uuid.New()
	bills := []*types.VendorBill{
		{CostCodeID: ptrUUID(codeA), TotalCents: 4000},
		{CostCodeID: ptrUUID(codeA), TotalCents: 1000},
		{TotalCents: 250},
	}

	got := sumActualByCostCode(bills)

	if got[codeA] != 5000 {
		t.Fatalf("codeA = %d, want 5000", got[codeA])
	}
	if got[uuid.Nil] != 250 {
		t.Fatalf("unallocated = %d, want 250", got[uuid.Nil])
	}
}

func TestBillCostCodeBucket(t *testing.T) {
	codeA := uuid.New()
	codeB := uuid.New()

	t.Run("bill's own code wins", func(t *testing.T) {
		bill := &types.VendorBill{
			CostCodeID: ptrUUID(codeA),
			Commitment: &types.Commitment{Lines: []types.CommitmentLine{{CostCodeID: ptrUUID(codeB)}}},
		}
		if got := billCostCodeBucket(bill); got != codeA {
			t.Fatalf("bucket = %s, want %s", got, codeA)
		}
	})

	t.Run("inherits single commitment code", func(t *testing.T) {
		bill := &types.VendorBill{
			Commitment: &types.Commitment{Lines: []types.CommitmentLine{
				{CostCodeID: ptrUUID(codeA)},
				{CostCodeID: ptrUUID(codeA)},
			}},
		}
		if got := billCostCodeBucket(bill); got != codeA {
			t.Fatalf("bucket = %s, want %s", got, codeA)
		}
	})

	t.Run("mixed commitment codes fall to unallocated", func(t *testing.T) {
		bill := &types.VendorBill{
			Commitment: &types.Commitment{Lines: []types.CommitmentLine{
				{CostCodeID: ptrUUID(codeA)},
				{CostCodeID: ptrUUID(codeB)},
			}},
		}
		if got := billCostCodeBucket(bill); got != uuid.Nil {
			t.Fatalf("bucket = %s, want unallocated", got)
		}
	})

	t.Run("no code anywhere", func(t *testing.T) {
		if got := billCostCodeBucket(&types.VendorBill{}); got != uuid.Nil {
			t.Fatalf("bucket = %s, want unallocated", got)
		}
	})
}
