package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brickline/brickline-backend/internal/domain"
)

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID) *types.Project {
	tb.Helper()
	p := &types.Project{
		ID:    uuid.New(),
		OrgID: orgID,
		Name:  "project",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedCompany(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID) *types.Company {
	tb.Helper()
	c := &types.Company{
		ID:    uuid.New(),
		OrgID: orgID,
		Name:  "company",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed company: %v", err)
	}
	return c
}

func SeedCostCode(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, code string) *types.CostCode {
	tb.Helper()
	cc := &types.CostCode{
		ID:    uuid.New(),
		OrgID: orgID,
		Code:  code,
		Name:  "cost code " + code,
	}
	if err := tx.WithContext(ctx).Create(cc).Error; err != nil {
		tb.Fatalf("seed cost code: %v", err)
	}
	return cc
}

func SeedBudget(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID, projectID uuid.UUID, version int, status types.BudgetStatus) *types.Budget {
	tb.Helper()
	b := &types.Budget{
		ID:        uuid.New(),
		OrgID:     orgID,
		ProjectID: projectID,
		Version:   version,
		Status:    status,
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed budget: %v", err)
	}
	return b
}

func SeedBudgetLine(tb testing.TB, ctx context.Context, tx *gorm.DB, budgetID uuid.UUID, costCodeID *uuid.UUID, amountCents int64) *types.BudgetLine {
	tb.Helper()
	l := &types.BudgetLine{
		ID:          uuid.New(),
		BudgetID:    budgetID,
		CostCodeID:  costCodeID,
		Description: "line",
		AmountCents: amountCents,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed budget line: %v", err)
	}
	return l
}

func SeedCommitment(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID, projectID, companyID uuid.UUID, status types.CommitmentStatus) *types.Commitment {
	tb.Helper()
	c := &types.Commitment{
		ID:        uuid.New(),
		OrgID:     orgID,
		ProjectID: projectID,
		CompanyID: companyID,
		Title:     "commitment",
		Status:    status,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed commitment: %v", err)
	}
	return c
}

func SeedCommitmentLine(tb testing.TB, ctx context.Context, tx *gorm.DB, commitmentID uuid.UUID, costCodeID *uuid.UUID, quantity, unitCostCents int64) *types.CommitmentLine {
	tb.Helper()
	l := &types.CommitmentLine{
		ID:            uuid.New(),
		CommitmentID:  commitmentID,
		CostCodeID:    costCodeID,
		Description:   "line",
		Quantity:      quantity,
		Unit:          "ea",
		UnitCostCents: unitCostCents,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed commitment line: %v", err)
	}
	return l
}

func SeedChangeOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID, projectID uuid.UUID, status types.ChangeOrderStatus, totalCents int64) *types.ChangeOrder {
	tb.Helper()
	co := &types.ChangeOrder{
		ID:         uuid.New(),
		OrgID:      orgID,
		ProjectID:  projectID,
		Title:      "change order",
		Status:     status,
		TotalCents: totalCents,
	}
	if err := tx.WithContext(ctx).Create(co).Error; err != nil {
		tb.Fatalf("seed change order: %v", err)
	}
	return co
}

func SeedChangeOrderLine(tb testing.TB, ctx context.Context, tx *gorm.DB, orderID uuid.UUID, costCodeID *uuid.UUID, amountCents int64) *types.ChangeOrderLine {
	tb.Helper()
	l := &types.ChangeOrderLine{
		ID:            uuid.New(),
		ChangeOrderID: orderID,
		CostCodeID:    costCodeID,
		Description:   "line",
		AmountCents:   amountCents,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed change order line: %v", err)
	}
	return l
}

func SeedVendorBill(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID, projectID uuid.UUID, commitmentID, costCodeID *uuid.UUID, status types.VendorBillStatus, totalCents int64) *types.VendorBill {
	tb.Helper()
	b := &types.VendorBill{
		ID:           uuid.New(),
		OrgID:        orgID,
		ProjectID:    projectID,
		CommitmentID: commitmentID,
		CostCodeID:   costCodeID,
		Number:       "bill-" + uuid.NewString()[:8],
		Status:       status,
		TotalCents:   totalCents,
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed vendor bill: %v", err)
	}
	return b
}
