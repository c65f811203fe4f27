package org_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/brickline/brickline-backend/internal/data/repos/org"
	"github.com/brickline/brickline-backend/internal/data/repos/testutil"
	types "github.com/brickline/brickline-backend/internal/domain"
)

func TestCostCodeRepoCountReferences(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := org.NewCostCodeRepo(db, log)

	orgID := uuid.New()
	project := testutil.SeedProject(t, ctx, tx, orgID)
	budget := testutil.SeedBudget(t, ctx, tx, orgID, project.ID, 1, types.BudgetStatusDraft)
	code := testutil.SeedCostCode(t, ctx, tx, orgID, "06-1000")

	refs, err := repo.CountReferences(ctx, tx, code.ID)
	if err != nil {
		t.Fatalf("CountReferences: %v", err)
	}
	if refs != 0 {
		t.Fatalf("refs = %d, want 0 for fresh code", refs)
	}

	testutil.SeedBudgetLine(t, ctx, tx, budget.ID, testutil.PtrUUID(code.ID), 100000)
	testutil.SeedVendorBill(t, ctx, tx, orgID, project.ID, nil, testutil.PtrUUID(code.ID), types.VendorBillStatusPending, 5000)

	refs, err = repo.CountReferences(ctx, tx, code.ID)
	if err != nil {
		t.Fatalf("CountReferences: %v", err)
	}
	if refs != 2 {
		t.Fatalf("refs = %d, want 2 (budget line + vendor bill)", refs)
	}
}

func TestCostCodeRepoDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := org.NewCostCodeRepo(db, log)

	orgID := uuid.New()
	code := testutil.SeedCostCode(t, ctx, tx, orgID, "06-2000")

	if err := repo.Delete(ctx, tx, code.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	remaining, err := repo.GetByIDs(ctx, tx, []uuid.UUID{code.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("code still present after delete")
	}
}
