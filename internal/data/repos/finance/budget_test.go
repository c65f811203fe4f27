package finance_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brickline/brickline-backend/internal/data/repos/finance"
	"github.com/brickline/brickline-backend/internal/data/repos/testutil"
	types "github.com/brickline/brickline-backend/internal/domain"
)

func TestBudgetRepoVersioning(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := finance.NewBudgetRepo(db, log)

	orgID := uuid.New()
	project := testutil.SeedProject(t, ctx, tx, orgID)

	maxVersion, err := repo.MaxVersionForProject(ctx, tx, project.ID)
	if err != nil {
		t.Fatalf("MaxVersionForProject: %v", err)
	}
	if maxVersion != 0 {
		t.Fatalf("max version of empty project = %d, want 0", maxVersion)
	}

	testutil.SeedBudget(t, ctx, tx, orgID, project.ID, 1, types.BudgetStatusDraft)
	testutil.SeedBudget(t, ctx, tx, orgID, project.ID, 2, types.BudgetStatusApproved)
	testutil.SeedBudget(t, ctx, tx, orgID, project.ID, 3, types.BudgetStatusDraft)

	maxVersion, err = repo.MaxVersionForProject(ctx, tx, project.ID)
	if err != nil {
		t.Fatalf("MaxVersionForProject: %v", err)
	}
	if maxVersion != 3 {
		t.Fatalf("max version = %d, want 3 (drafts count)", maxVersion)
	}
}

func TestBudgetRepoVersionUnique(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := finance.NewBudgetRepo(db, log)

	orgID := uuid.New()
	project := testutil.SeedProject(t, ctx, tx, orgID)
	testutil.SeedBudget(t, ctx, tx, orgID, project.ID, 1, types.BudgetStatusDraft)

	_, err := repo.Create(ctx, tx, []*types.Budget{{
		ID:        uuid.New(),
		OrgID:     orgID,
		ProjectID: project.ID,
		Version:   1,
		Status:    types.BudgetStatusDraft,
	}})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicate key error for reused version, got %v", err)
	}
}

func TestBudgetRepoGetActiveForProject(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := finance.NewBudgetRepo(db, log)

	orgID := uuid.New()
	project := testutil.SeedProject(t, ctx, tx, orgID)

	active, err := repo.GetActiveForProject(ctx, tx, project.ID)
	if err != nil {
		t.Fatalf("GetActiveForProject: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active budget, got version %d", active.Version)
	}

	testutil.SeedBudget(t, ctx, tx, orgID, project.ID, 1, types.BudgetStatusLocked)
	testutil.SeedBudget(t, ctx, tx, orgID, project.ID, 2, types.BudgetStatusApproved)
	// Highest version overall is a draft and must not win.
	testutil.SeedBudget(t, ctx, tx, orgID, project.ID, 3, types.BudgetStatusDraft)

	active, err = repo.GetActiveForProject(ctx, tx, project.ID)
	if err != nil {
		t.Fatalf("GetActiveForProject: %v", err)
	}
	if active == nil || active.Version != 2 {
		t.Fatalf("active = %+v, want version 2", active)
	}
}

func TestBudgetRepoUpdateStatusGuarded(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := finance.NewBudgetRepo(db, log)

	orgID := uuid.New()
	project := testutil.SeedProject(t, ctx, tx, orgID)
	budget := testutil.SeedBudget(t, ctx, tx, orgID, project.ID, 1, types.BudgetStatusDraft)

	affected, err := repo.UpdateStatusGuarded(ctx, tx, budget.ID, types.BudgetStatusDraft, types.BudgetStatusApproved)
	if err != nil {
		t.Fatalf("UpdateStatusGuarded: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}

	// Second attempt with the stale expected status misses the row.
	affected, err = repo.UpdateStatusGuarded(ctx, tx, budget.ID, types.BudgetStatusDraft, types.BudgetStatusApproved)
	if err != nil {
		t.Fatalf("UpdateStatusGuarded: %v", err)
	}
	if affected != 0 {
		t.Fatalf("stale guard affected = %d, want 0", affected)
	}
}

func TestBudgetLineRepoReplaceForBudget(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	lineRepo := finance.NewBudgetLineRepo(db, log)

	orgID := uuid.New()
	project := testutil.SeedProject(t, ctx, tx, orgID)
	budget := testutil.SeedBudget(t, ctx, tx, orgID, project.ID, 1, types.BudgetStatusDraft)
	code := testutil.SeedCostCode(t, ctx, tx, orgID, "03-3000")
	testutil.SeedBudgetLine(t, ctx, tx, budget.ID, testutil.PtrUUID(code.ID), 100000)
	testutil.SeedBudgetLine(t, ctx, tx, budget.ID, nil, 50000)

	replacement := []*types.BudgetLine{
		{ID: uuid.New(), BudgetID: budget.ID, CostCodeID: testutil.PtrUUID(code.ID), Description: "rebar", AmountCents: 225000},
	}
	if _, err := lineRepo.ReplaceForBudget(ctx, tx, budget.ID, replacement); err != nil {
		t.Fatalf("ReplaceForBudget: %v", err)
	}

	lines, err := lineRepo.GetByBudgetIDs(ctx, tx, []uuid.UUID{budget.ID})
	if err != nil {
		t.Fatalf("GetByBudgetIDs: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1 (old set fully replaced)", len(lines))
	}
	if lines[0].AmountCents != 225000 {
		t.Fatalf("amount = %d, want 225000", lines[0].AmountCents)
	}
}

func TestVarianceAlertRepoOpenKey(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := finance.NewVarianceAlertRepo(db, log)

	orgID := uuid.New()
	project := testutil.SeedProject(t, ctx, tx, orgID)
	budget := testutil.SeedBudget(t, ctx, tx, orgID, project.ID, 1, types.BudgetStatusApproved)
	code := testutil.SeedCostCode(t, ctx, tx, orgID, "09-9100")

	found, err := repo.GetOpenByKey(ctx, tx, project.ID, testutil.PtrUUID(code.ID), budget.ID)
	if err != nil {
		t.Fatalf("GetOpenByKey: %v", err)
	}
	if found != nil {
		t.Fatalf("expected no open alert, got %+v", found)
	}

	alert := &types.VarianceAlert{
		ID:               uuid.New(),
		OrgID:            orgID,
		ProjectID:        project.ID,
		CostCodeID:       testutil.PtrUUID(code.ID),
		BudgetID:         budget.ID,
		Type:             types.VarianceAlertTypeApproaching,
		Status:           types.VarianceAlertStatusOpen,
		ThresholdPercent: 90,
		ObservedPercent:  92,
	}
	if _, err := repo.Create(ctx, tx, []*types.VarianceAlert{alert}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err = repo.GetOpenByKey(ctx, tx, project.ID, testutil.PtrUUID(code.ID), budget.ID)
	if err != nil {
		t.Fatalf("GetOpenByKey: %v", err)
	}
	if found == nil || found.ID != alert.ID {
		t.Fatalf("found = %+v, want alert %s", found, alert.ID)
	}

	// The nil cost code addresses a separate bucket.
	found, err = repo.GetOpenByKey(ctx, tx, project.ID, nil, budget.ID)
	if err != nil {
		t.Fatalf("GetOpenByKey: %v", err)
	}
	if found != nil {
		t.Fatalf("nil-code bucket should be empty, got %+v", found)
	}

	if err := repo.UpdateObserved(ctx, tx, alert.ID, types.VarianceAlertTypeOverrun, 130, 100); err != nil {
		t.Fatalf("UpdateObserved: %v", err)
	}
	refreshed, err := repo.GetByIDs(ctx, tx, []uuid.UUID{alert.ID})
	if err != nil || len(refreshed) != 1 {
		t.Fatalf("GetByIDs: %v (%d rows)", err, len(refreshed))
	}
	if refreshed[0].Type != types.VarianceAlertTypeOverrun || refreshed[0].ObservedPercent != 130 {
		t.Fatalf("refreshed = %+v, want upgraded overrun at 130", refreshed[0])
	}
}

func TestVarianceAlertDuplicateOpenRejected(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := finance.NewVarianceAlertRepo(db, log)

	// The partial unique index is enforced outside any wrapping transaction,
	// so this test commits real rows and cleans up after itself.
	orgID := uuid.New()
	project := testutil.SeedProject(t, ctx, db, orgID)
	budget := testutil.SeedBudget(t, ctx, db, orgID, project.ID, 1, types.BudgetStatusApproved)
	t.Cleanup(func() {
		db.WithContext(ctx).Where("project_id = ?", project.ID).Delete(&types.VarianceAlert{})
		db.WithContext(ctx).Where("id = ?", budget.ID).Delete(&types.Budget{})
		db.WithContext(ctx).Unscoped().Where("id = ?", project.ID).Delete(&types.Project{})
	})

	mk := func(status types.VarianceAlertStatus) *types.VarianceAlert {
		return &types.VarianceAlert{
			ID:               uuid.New(),
			OrgID:            orgID,
			ProjectID:        project.ID,
			BudgetID:         budget.ID,
			Type:             types.VarianceAlertTypeOverrun,
			Status:           status,
			ThresholdPercent: 100,
			ObservedPercent:  120,
		}
	}

	if _, err := repo.Create(ctx, nil, []*types.VarianceAlert{mk(types.VarianceAlertStatusOpen)}); err != nil {
		t.Fatalf("first open alert: %v", err)
	}
	_, err := repo.Create(ctx, nil, []*types.VarianceAlert{mk(types.VarianceAlertStatusOpen)})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicate key for second open alert, got %v", err)
	}
	// A resolved row with the same key is fine; only open alerts are unique.
	if _, err := repo.Create(ctx, nil, []*types.VarianceAlert{mk(types.VarianceAlertStatusResolved)}); err != nil {
		t.Fatalf("resolved alert with same key: %v", err)
	}
}
