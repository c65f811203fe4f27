package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brickline/brickline-backend/internal/data/repos"
	"github.com/brickline/brickline-backend/internal/data/repos/testutil"
	types "github.com/brickline/brickline-backend/internal/domain"
	apperrors "github.com/brickline/brickline-backend/internal/pkg/errors"
	"github.com/brickline/brickline-backend/internal/services"
)

type serviceHarness struct {
	db          *gorm.DB
	budget      services.BudgetService
	changeOrder services.ChangeOrderService
	variance    services.VarianceService
	forecast    services.ForecastService
}

// newServiceHarness wires the full service stack against the integration
// database. Budget creation opens its own transactions, so these tests commit
// real rows; each test uses a fresh org and project and removes its rows.
func newServiceHarness(t *testing.T) *serviceHarness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	projectRepo := repos.NewProjectRepo(db, log)
	costCodeRepo := repos.NewCostCodeRepo(db, log)
	budgetRepo := repos.NewBudgetRepo(db, log)
	budgetLineRepo := repos.NewBudgetLineRepo(db, log)
	commitmentRepo := repos.NewCommitmentRepo(db, log)
	vendorBillRepo := repos.NewVendorBillRepo(db, log)
	changeOrderRepo := repos.NewChangeOrderRepo(db, log)
	alertRepo := repos.NewVarianceAlertRepo(db, log)

	rollup := services.NewRollupService(db, log, commitmentRepo, vendorBillRepo)
	changeOrder := services.NewChangeOrderService(db, log, projectRepo, costCodeRepo, changeOrderRepo)
	budget := services.NewBudgetService(db, log, projectRepo, costCodeRepo, budgetRepo, budgetLineRepo, rollup, changeOrder)
	variance := services.NewVarianceService(db, log, projectRepo, alertRepo, budget)
	forecast := services.NewForecastService(db, log, budgetLineRepo, budget)

	return &serviceHarness{
		db:          db,
		budget:      budget,
		changeOrder: changeOrder,
		variance:    variance,
		forecast:    forecast,
	}
}

func (h *serviceHarness) seedProject(t *testing.T) (uuid.UUID, *types.Project) {
	t.Helper()
	ctx := context.Background()
	orgID := uuid.New()
	project := testutil.SeedProject(t, ctx, h.db, orgID)
	t.Cleanup(func() {
		h.db.WithContext(ctx).Where("project_id = ?", project.ID).Delete(&types.VarianceAlert{})
		h.db.WithContext(ctx).Exec(`DELETE FROM budget_line WHERE budget_id IN (SELECT id FROM budget WHERE project_id = ?)`, project.ID)
		h.db.WithContext(ctx).Where("project_id = ?", project.ID).Delete(&types.Budget{})
		h.db.WithContext(ctx).Exec(`DELETE FROM change_order_line WHERE change_order_id IN (SELECT id FROM change_order WHERE project_id = ?)`, project.ID)
		h.db.WithContext(ctx).Unscoped().Where("project_id = ?", project.ID).Delete(&types.ChangeOrder{})
		h.db.WithContext(ctx).Unscoped().Where("project_id = ?", project.ID).Delete(&types.VendorBill{})
		h.db.WithContext(ctx).Exec(`DELETE FROM commitment_line WHERE commitment_id IN (SELECT id FROM commitment WHERE project_id = ?)`, project.ID)
		h.db.WithContext(ctx).Unscoped().Where("project_id = ?", project.ID).Delete(&types.Commitment{})
		h.db.WithContext(ctx).Where("org_id = ?", orgID).Delete(&types.CostCode{})
		h.db.WithContext(ctx).Unscoped().Where("id = ?", project.ID).Delete(&types.Project{})
	})
	return orgID, project
}

func TestBudgetServiceVersionLifecycle(t *testing.T) {
	h := newServiceHarness(t)
	ctx := context.Background()
	orgID, project := h.seedProject(t)
	code := testutil.SeedCostCode(t, ctx, h.db, orgID, "03-3000")

	v1, err := h.budget.CreateBudget(ctx, orgID, project.ID, []services.BudgetLineInput{
		{CostCodeID: testutil.PtrUUID(code.ID), Description: "concrete", AmountCents: 500000},
	}, types.BudgetStatusDraft)
	if err != nil {
		t.Fatalf("CreateBudget v1: %v", err)
	}
	if v1.Version != 1 {
		t.Fatalf("first version = %d, want 1", v1.Version)
	}

	v2, err := h.budget.CreateBudget(ctx, orgID, project.ID, nil, types.BudgetStatusDraft)
	if err != nil {
		t.Fatalf("CreateBudget v2: %v", err)
	}
	if v2.Version != 2 {
		t.Fatalf("second version = %d, want 2", v2.Version)
	}

	// draft -> approved, then re-approval is a no-op success.
	if _, err := h.budget.UpdateBudgetStatus(ctx, orgID, v1.ID, types.BudgetStatusApproved); err != nil {
		t.Fatalf("approve v1: %v", err)
	}
	if _, err := h.budget.UpdateBudgetStatus(ctx, orgID, v1.ID, types.BudgetStatusApproved); err != nil {
		t.Fatalf("re-approve v1 should be idempotent: %v", err)
	}

	// Locking freezes the line set.
	if _, err := h.budget.UpdateBudgetStatus(ctx, orgID, v1.ID, types.BudgetStatusLocked); err != nil {
		t.Fatalf("lock v1: %v", err)
	}
	_, err = h.budget.ReplaceBudgetLines(ctx, orgID, v1.ID, nil)
	if !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("replace lines on locked budget: got %v, want ErrInvalidState", err)
	}

	// Duplicate copies lines under fresh ids at the next version.
	v3, err := h.budget.DuplicateBudgetVersion(ctx, orgID, project.ID, v1.ID)
	if err != nil {
		t.Fatalf("DuplicateBudgetVersion: %v", err)
	}
	if v3.Version != 3 || v3.Status != types.BudgetStatusDraft {
		t.Fatalf("duplicate = v%d %s, want v3 draft", v3.Version, v3.Status)
	}
	if len(v3.Lines) != 1 {
		t.Fatalf("duplicate lines = %d, want 1", len(v3.Lines))
	}
	if v3.Lines[0].AmountCents != 500000 {
		t.Fatalf("duplicate line amount = %d, want 500000", v3.Lines[0].AmountCents)
	}
	if v3.Lines[0].ID == v1.Lines[0].ID {
		t.Fatalf("duplicate line aliases the source row")
	}
}

func TestBudgetBreakdownAdditivity(t *testing.T) {
	h := newServiceHarness(t)
	ctx := context.Background()
	orgID, project := h.seedProject(t)
	code := testutil.SeedCostCode(t, ctx, h.db, orgID, "03-3000")

	budget, err := h.budget.CreateBudget(ctx, orgID, project.ID, []services.BudgetLineInput{
		{CostCodeID: testutil.PtrUUID(code.ID), AmountCents: 500000},
	}, types.BudgetStatusApproved)
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}

	approvedCO, err := h.changeOrder.CreateChangeOrder(ctx, orgID, project.ID, "added scope", 0, []services.ChangeOrderLineInput{
		{CostCodeID: testutil.PtrUUID(code.ID), AmountCents: 50000},
	})
	if err != nil {
		t.Fatalf("CreateChangeOrder: %v", err)
	}
	for _, status := range []types.ChangeOrderStatus{types.ChangeOrderStatusPending, types.ChangeOrderStatusSent, types.ChangeOrderStatusApproved} {
		if _, err := h.changeOrder.UpdateChangeOrderStatus(ctx, orgID, approvedCO.ID, status); err != nil {
			t.Fatalf("transition change order to %s: %v", status, err)
		}
	}
	if _, err := h.changeOrder.CreateChangeOrder(ctx, orgID, project.ID, "pending scope", 0, []services.ChangeOrderLineInput{
		{CostCodeID: testutil.PtrUUID(code.ID), AmountCents: 20000},
	}); err != nil {
		t.Fatalf("CreateChangeOrder pending: %v", err)
	}

	breakdown, err := h.budget.GetBudgetWithActuals(ctx, orgID, project.ID)
	if err != nil {
		t.Fatalf("GetBudgetWithActuals: %v", err)
	}
	if breakdown.Budget.ID != budget.ID {
		t.Fatalf("active budget = %s, want %s", breakdown.Budget.ID, budget.ID)
	}
	if len(breakdown.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(breakdown.Rows))
	}
	row := breakdown.Rows[0]
	// Only the approved change order feeds the adjusted budget; the pending
	// one shows up in the separate visibility total.
	if row.AdjustedBudgetCents != 550000 {
		t.Fatalf("adjusted = %d, want 550000", row.AdjustedBudgetCents)
	}
	if breakdown.PendingChangeOrderCents != 20000 {
		t.Fatalf("pending = %d, want 20000", breakdown.PendingChangeOrderCents)
	}
}

func TestVarianceScanIdempotent(t *testing.T) {
	h := newServiceHarness(t)
	ctx := context.Background()
	orgID, project := h.seedProject(t)
	code := testutil.SeedCostCode(t, ctx, h.db, orgID, "09-9100")

	if _, err := h.budget.CreateBudget(ctx, orgID, project.ID, []services.BudgetLineInput{
		{CostCodeID: testutil.PtrUUID(code.ID), AmountCents: 100000},
	}, types.BudgetStatusApproved); err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	// A paid bill at 95% of budget trips the approaching threshold.
	testutil.SeedVendorBill(t, ctx, h.db, orgID, project.ID, nil, testutil.PtrUUID(code.ID), types.VendorBillStatusPaid, 95000)

	thresholds := services.DefaultThresholds()
	first, err := h.variance.CheckVarianceAlerts(ctx, orgID, project.ID, thresholds)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if first.AlertsCreated != 1 || first.AlertsUpdated != 0 {
		t.Fatalf("first scan = %+v, want 1 created 0 updated", first)
	}

	second, err := h.variance.CheckVarianceAlerts(ctx, orgID, project.ID, thresholds)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if second.AlertsCreated != 0 || second.AlertsUpdated != 0 {
		t.Fatalf("second scan over unchanged data = %+v, want no writes", second)
	}

	// More spend upgrades the open alert in place instead of duplicating it.
	testutil.SeedVendorBill(t, ctx, h.db, orgID, project.ID, nil, testutil.PtrUUID(code.ID), types.VendorBillStatusPaid, 30000)
	third, err := h.variance.CheckVarianceAlerts(ctx, orgID, project.ID, thresholds)
	if err != nil {
		t.Fatalf("third scan: %v", err)
	}
	if third.AlertsCreated != 0 || third.AlertsUpdated != 1 {
		t.Fatalf("third scan = %+v, want 0 created 1 updated", third)
	}

	alerts, err := h.variance.ListAlerts(ctx, orgID, project.ID)
	if err != nil {
		t.Fatalf("ListAlerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(alerts))
	}
	if alerts[0].Type != types.VarianceAlertTypeOverrun || alerts[0].ObservedPercent != 125 {
		t.Fatalf("alert = %s at %d%%, want overrun at 125", alerts[0].Type, alerts[0].ObservedPercent)
	}

	ack, err := h.variance.AcknowledgeAlert(ctx, orgID, alerts[0].ID, types.VarianceAlertStatusAcknowledged)
	if err != nil {
		t.Fatalf("AcknowledgeAlert: %v", err)
	}
	if ack.Status != types.VarianceAlertStatusAcknowledged {
		t.Fatalf("status = %s, want acknowledged", ack.Status)
	}
	if _, err := h.variance.AcknowledgeAlert(ctx, uuid.New(), alerts[0].ID, types.VarianceAlertStatusResolved); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("foreign org acknowledge: got %v, want ErrNotFound", err)
	}
}

func TestForecastReportUsesOverride(t *testing.T) {
	h := newServiceHarness(t)
	ctx := context.Background()
	orgID, project := h.seedProject(t)
	code := testutil.SeedCostCode(t, ctx, h.db, orgID, "03-3000")

	override := int64(10000)
	if _, err := h.budget.CreateBudget(ctx, orgID, project.ID, []services.BudgetLineInput{
		{
			CostCodeID:  testutil.PtrUUID(code.ID),
			AmountCents: 100000,
			Metadata:    &types.BudgetLineMetadata{EstimateRemainingCents: &override},
		},
	}, types.BudgetStatusApproved); err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	testutil.SeedVendorBill(t, ctx, h.db, orgID, project.ID, nil, testutil.PtrUUID(code.ID), types.VendorBillStatusPaid, 60000)

	report, err := h.forecast.GetForecastReport(ctx, orgID, project.ID)
	if err != nil {
		t.Fatalf("GetForecastReport: %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(report.Rows))
	}
	row := report.Rows[0]
	if !row.RemainingOverridden || row.EstimateRemainingCents != 10000 {
		t.Fatalf("row = %+v, want override 10000 applied", row)
	}
	if row.ProjectedFinalCents != 70000 || row.VarianceAtCompletionCents != 30000 {
		t.Fatalf("final = %d vac = %d, want 70000 / 30000", row.ProjectedFinalCents, row.VarianceAtCompletionCents)
	}
}
