package services

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/brickline/brickline-backend/internal/data/repos"
	types "github.com/brickline/brickline-backend/internal/domain"
	apperrors "github.com/brickline/brickline-backend/internal/pkg/errors"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type BudgetLineInput struct {
	CostCodeID  *uuid.UUID                `json:"cost_code_id"`
	Description string                    `json:"description"`
	AmountCents int64                     `json:"amount_cents"`
	Metadata    *types.BudgetLineMetadata `json:"metadata,omitempty"`
}

// BreakdownRow is the per-cost-code view of budget vs. spend. A nil cost code
// is the unallocated bucket. AdjustedBudgetCents is always
// BudgetCents + COAdjustmentCents.
type BreakdownRow struct {
	CostCodeID          *uuid.UUID `json:"cost_code_id"`
	BudgetCents         int64      `json:"budget_cents"`
	COAdjustmentCents   int64      `json:"co_adjustment_cents"`
	AdjustedBudgetCents int64      `json:"adjusted_budget_cents"`
	CommittedCents      int64      `json:"committed_cents"`
	ActualCents         int64      `json:"actual_cents"`
}

type BudgetBreakdown struct {
	Budget                  *types.Budget  `json:"budget"`
	Rows                    []BreakdownRow `json:"rows"`
	PendingChangeOrderCents int64          `json:"pending_change_order_cents"`
}

type BudgetService interface {
	CreateBudget(ctx context.Context, orgID, projectID uuid.UUID, lines []BudgetLineInput, status types.BudgetStatus) (*types.Budget, error)
	ReplaceBudgetLines(ctx context.Context, orgID, budgetID uuid.UUID, lines []BudgetLineInput) (*types.Budget, error)
	UpdateBudgetStatus(ctx context.Context, orgID, budgetID uuid.UUID, status types.BudgetStatus) (*types.Budget, error)
	DuplicateBudgetVersion(ctx context.Context, orgID, projectID, fromBudgetID uuid.UUID) (*types.Budget, error)
	GetBudgetWithActuals(ctx context.Context, orgID, projectID uuid.UUID) (*BudgetBreakdown, error)
}

type budgetService struct {
	db             *gorm.DB
	log            *logger.Logger
	projectRepo    repos.ProjectRepo
	costCodeRepo   repos.CostCodeRepo
	budgetRepo     repos.BudgetRepo
	budgetLineRepo repos.BudgetLineRepo
	rollup         RollupService
	changeOrders   ChangeOrderService
}

func NewBudgetService(
	db *gorm.DB,
	log *logger.Logger,
	projectRepo repos.ProjectRepo,
	costCodeRepo repos.CostCodeRepo,
	budgetRepo repos.BudgetRepo,
	budgetLineRepo repos.BudgetLineRepo,
	rollup RollupService,
	changeOrders ChangeOrderService,
) BudgetService {
	return &budgetService{
		db:             db,
		log:            log.With("service", "BudgetService"),
		projectRepo:    projectRepo,
		costCodeRepo:   costCodeRepo,
		budgetRepo:     budgetRepo,
		budgetLineRepo: budgetLineRepo,
		rollup:         rollup,
		changeOrders:   changeOrders,
	}
}

func (s *budgetService) CreateBudget(ctx context.Context, orgID, projectID uuid.UUID, lines []BudgetLineInput, status types.BudgetStatus) (*types.Budget, error) {
	if status == "" {
		status = types.BudgetStatusDraft
	}
	if status != types.BudgetStatusDraft && status != types.BudgetStatusApproved {
		return nil, apperrors.Validationf("budget cannot be created as %s", status)
	}
	if _, err := resolveProject(ctx, s.projectRepo, orgID, projectID); err != nil {
		return nil, err
	}
	if err := s.validateLines(ctx, orgID, lines); err != nil {
		return nil, err
	}

	var created *types.Budget
	// The version column is assigned from MAX(version)+1 inside the
	// transaction; the unique (project_id, version) index is the net under a
	// concurrent create. One retry recomputes against the winner's version.
	for attempt := 0; attempt < 2; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			maxVersion, err := s.budgetRepo.MaxVersionForProject(ctx, tx, projectID)
			if err != nil {
				return err
			}
			budget := &types.Budget{
				ID:        uuid.New(),
				OrgID:     orgID,
				ProjectID: projectID,
				Version:   maxVersion + 1,
				Status:    status,
			}
			if _, err := s.budgetRepo.Create(ctx, tx, []*types.Budget{budget}); err != nil {
				return err
			}
			budgetLines, err := buildBudgetLines(budget.ID, lines)
			if err != nil {
				return err
			}
			if _, err := s.budgetLineRepo.Create(ctx, tx, budgetLines); err != nil {
				return err
			}
			budget.Lines = derefLines(budgetLines)
			created = budget
			return nil
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == 1 {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.Conflictf("budget version race for project %s", projectID)
			}
			return nil, err
		}
	}
	return created, nil
}

func (s *budgetService) ReplaceBudgetLines(ctx context.Context, orgID, budgetID uuid.UUID, lines []BudgetLineInput) (*types.Budget, error) {
	budget, err := s.resolveBudget(ctx, orgID, budgetID)
	if err != nil {
		return nil, err
	}
	if !budget.Editable() {
		return nil, apperrors.InvalidStatef("budget %s is locked", budgetID)
	}
	if err := s.validateLines(ctx, orgID, lines); err != nil {
		return nil, err
	}

	budgetLines, err := buildBudgetLines(budgetID, lines)
	if err != nil {
		return nil, err
	}
	// Single transaction: a concurrent reader sees the old set or the new
	// set, never a mix.
	if _, err := s.budgetLineRepo.ReplaceForBudget(ctx, s.db.WithContext(ctx), budgetID, budgetLines); err != nil {
		return nil, err
	}
	budget.Lines = derefLines(budgetLines)
	return budget, nil
}

func (s *budgetService) UpdateBudgetStatus(ctx context.Context, orgID, budgetID uuid.UUID, status types.BudgetStatus) (*types.Budget, error) {
	budget, err := s.resolveBudget(ctx, orgID, budgetID)
	if err != nil {
		return nil, err
	}

	if budget.Status == status {
		if status == types.BudgetStatusApproved {
			// Idempotent re-approval.
			return budget, nil
		}
		return nil, apperrors.InvalidTransitionf("budget already %s", status)
	}
	if !types.LegalBudgetTransition(budget.Status, status) {
		return nil, apperrors.InvalidTransitionf("budget %s → %s", budget.Status, status)
	}

	affected, err := s.budgetRepo.UpdateStatusGuarded(ctx, nil, budgetID, budget.Status, status)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		current, rerr := s.resolveBudget(ctx, orgID, budgetID)
		if rerr != nil {
			return nil, rerr
		}
		if current.Status == status {
			// The concurrent writer reached the same effective state.
			return current, nil
		}
		return nil, apperrors.Conflictf("budget %s status changed concurrently", budgetID)
	}

	budget.Status = status
	// Approval supersedes the previously active budget by derivation only:
	// "active" is read back as the highest approved-or-locked version, so
	// history stays intact with no cascade of writes.
	return budget, nil
}

func (s *budgetService) DuplicateBudgetVersion(ctx context.Context, orgID, projectID, fromBudgetID uuid.UUID) (*types.Budget, error) {
	source, err := s.resolveBudget(ctx, orgID, fromBudgetID)
	if err != nil {
		return nil, err
	}
	if source.ProjectID != projectID {
		return nil, apperrors.NotFoundf("budget %s on project %s", fromBudgetID, projectID)
	}
	sourceLines, err := s.budgetLineRepo.GetByBudgetIDs(ctx, nil, []uuid.UUID{fromBudgetID})
	if err != nil {
		return nil, err
	}

	var created *types.Budget
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		maxVersion, err := s.budgetRepo.MaxVersionForProject(ctx, tx, projectID)
		if err != nil {
			return err
		}
		// Value-copies with fresh ids: the new draft never aliases the source
		// rows. Alerts and change-order links are recomputed against the new
		// version once it activates.
		budget := &types.Budget{
			ID:        uuid.New(),
			OrgID:     orgID,
			ProjectID: projectID,
			Version:   maxVersion + 1,
			Status:    types.BudgetStatusDraft,
		}
		if _, err := s.budgetRepo.Create(ctx, tx, []*types.Budget{budget}); err != nil {
			return err
		}
		copies := make([]*types.BudgetLine, 0, len(sourceLines))
		for _, src := range sourceLines {
			copies = append(copies, &types.BudgetLine{
				ID:          uuid.New(),
				BudgetID:    budget.ID,
				CostCodeID:  src.CostCodeID,
				Description: src.Description,
				AmountCents: src.AmountCents,
				Metadata:    src.Metadata,
			})
		}
		if _, err := s.budgetLineRepo.Create(ctx, tx, copies); err != nil {
			return err
		}
		budget.Lines = derefLines(copies)
		created = budget
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("budget version race for project %s", projectID)
		}
		return nil, err
	}
	return created, nil
}

func (s *budgetService) GetBudgetWithActuals(ctx context.Context, orgID, projectID uuid.UUID) (*BudgetBreakdown, error) {
	if _, err := resolveProject(ctx, s.projectRepo, orgID, projectID); err != nil {
		return nil, err
	}
	active, err := s.budgetRepo.GetActiveForProject(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, apperrors.NotFoundf("project %s has no active budget", projectID)
	}

	var (
		lines        []*types.BudgetLine
		committed    map[uuid.UUID]int64
		actual       map[uuid.UUID]int64
		adjustments  map[uuid.UUID]int64
		pendingCents int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = s.budgetLineRepo.GetByBudgetIDs(gctx, nil, []uuid.UUID{active.ID})
		return err
	})
	g.Go(func() error {
		var err error
		committed, err = s.rollup.CommittedByCostCode(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		actual, err = s.rollup.ActualByCostCode(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		adjustments, err = s.changeOrders.ApprovedAdjustmentsByCostCode(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		pendingCents, err = s.changeOrders.PendingAdjustmentTotal(gctx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &BudgetBreakdown{
		Budget:                  active,
		Rows:                    buildBreakdownRows(lines, adjustments, committed, actual),
		PendingChangeOrderCents: pendingCents,
	}, nil
}

func (s *budgetService) resolveBudget(ctx context.Context, orgID, budgetID uuid.UUID) (*types.Budget, error) {
	budgets, err := s.budgetRepo.GetByIDs(ctx, nil, []uuid.UUID{budgetID})
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 || budgets[0].OrgID != orgID {
		return nil, apperrors.NotFoundf("budget %s", budgetID)
	}
	return budgets[0], nil
}

func (s *budgetService) validateLines(ctx context.Context, orgID uuid.UUID, lines []BudgetLineInput) error {
	for _, l := range lines {
		if l.AmountCents < 0 {
			return apperrors.Validationf("budget line amount must be >= 0, got %d", l.AmountCents)
		}
	}
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{})
	for _, l := range lines {
		if l.CostCodeID == nil {
			continue
		}
		if _, ok := seen[*l.CostCodeID]; ok {
			continue
		}
		seen[*l.CostCodeID] = struct{}{}
		ids = append(ids, *l.CostCodeID)
	}
	return validateCostCodeRefs(ctx, s.costCodeRepo, orgID, ids)
}

func buildBudgetLines(budgetID uuid.UUID, inputs []BudgetLineInput) ([]*types.BudgetLine, error) {
	lines := make([]*types.BudgetLine, 0, len(inputs))
	for _, in := range inputs {
		line := &types.BudgetLine{
			ID:          uuid.New(),
			BudgetID:    budgetID,
			CostCodeID:  in.CostCodeID,
			Description: in.Description,
			AmountCents: in.AmountCents,
		}
		if in.Metadata != nil {
			raw, err := in.Metadata.JSON()
			if err != nil {
				return nil, err
			}
			line.Metadata = raw
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func derefLines(lines []*types.BudgetLine) []types.BudgetLine {
	out := make([]types.BudgetLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, *l)
	}
	return out
}

// buildBreakdownRows merges baseline lines with the change order overlay and
// both rollups. Cost codes that only show up in spend still get a row with a
// zero budget: under-budgeted spend stays visible.
func buildBreakdownRows(lines []*types.BudgetLine, adjustments, committed, actual map[uuid.UUID]int64) []BreakdownRow {
	budget := make(map[uuid.UUID]int64)
	for _, l := range lines {
		budget[costCodeBucket(l.CostCodeID)] += l.AmountCents
	}

	buckets := make(map[uuid.UUID]struct{})
	for k := range budget {
		buckets[k] = struct{}{}
	}
	for k := range adjustments {
		buckets[k] = struct{}{}
	}
	for k := range committed {
		buckets[k] = struct{}{}
	}
	for k := range actual {
		buckets[k] = struct{}{}
	}

	rows := make([]BreakdownRow, 0, len(buckets))
	for bucket := range buckets {
		row := BreakdownRow{
			BudgetCents:       budget[bucket],
			COAdjustmentCents: adjustments[bucket],
			CommittedCents:    committed[bucket],
			ActualCents:       actual[bucket],
		}
		row.AdjustedBudgetCents = row.BudgetCents + row.COAdjustmentCents
		if bucket != uuid.Nil {
			id := bucket
			row.CostCodeID = &id
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		// Unallocated bucket sorts last; the rest by cost code id for a
		// stable response shape.
		switch {
		case rows[i].CostCodeID == nil:
			return false
		case rows[j].CostCodeID == nil:
			return true
		default:
			return rows[i].CostCodeID.String() < rows[j].CostCodeID.String()
		}
	})
	return rows
}
