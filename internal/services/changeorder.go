package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brickline/brickline-backend/internal/data/repos"
	types "github.com/brickline/brickline-backend/internal/domain"
	apperrors "github.com/brickline/brickline-backend/internal/pkg/errors"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type ChangeOrderLineInput struct {
	CostCodeID  *uuid.UUID `json:"cost_code_id"`
	Description string     `json:"description"`
	AmountCents int64      `json:"amount_cents"`
}

type ChangeOrderService interface {
	CreateChangeOrder(ctx context.Context, orgID, projectID uuid.UUID, title string, daysImpact int, lines []ChangeOrderLineInput) (*types.ChangeOrder, error)
	UpdateChangeOrderStatus(ctx context.Context, orgID, orderID uuid.UUID, to types.ChangeOrderStatus) (*types.ChangeOrder, error)
	ListChangeOrders(ctx context.Context, orgID, projectID uuid.UUID) ([]*types.ChangeOrder, error)
	// ApprovedAdjustmentsByCostCode is the adjustment overlay: signed sums of
	// approved change order lines, grouped by cost code (uuid.Nil bucket for
	// untagged lines). Baseline budget lines are never touched.
	ApprovedAdjustmentsByCostCode(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]int64, error)
	// PendingAdjustmentTotal reports money still in negotiation. It is shown
	// for visibility and never feeds variance or forecast math.
	PendingAdjustmentTotal(ctx context.Context, projectID uuid.UUID) (int64, error)
}

type changeOrderService struct {
	db              *gorm.DB
	log             *logger.Logger
	projectRepo     repos.ProjectRepo
	costCodeRepo    repos.CostCodeRepo
	changeOrderRepo repos.ChangeOrderRepo
}

func NewChangeOrderService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, costCodeRepo repos.CostCodeRepo, changeOrderRepo repos.ChangeOrderRepo) ChangeOrderService {
	return &changeOrderService{
		db:              db,
		log:             log.With("service", "ChangeOrderService"),
		projectRepo:     projectRepo,
		costCodeRepo:    costCodeRepo,
		changeOrderRepo: changeOrderRepo,
	}
}

func (s *changeOrderService) CreateChangeOrder(ctx context.Context, orgID, projectID uuid.UUID, title string, daysImpact int, lines []ChangeOrderLineInput) (*types.ChangeOrder, error) {
	if title == "" {
		return nil, apperrors.Validationf("change order title is required")
	}
	if len(lines) == 0 {
		return nil, apperrors.Validationf("change order needs at least one line")
	}
	if _, err := resolveProject(ctx, s.projectRepo, orgID, projectID); err != nil {
		return nil, err
	}
	if err := validateCostCodeRefs(ctx, s.costCodeRepo, orgID, changeOrderCostCodeIDs(lines)); err != nil {
		return nil, err
	}

	var total int64
	coLines := make([]types.ChangeOrderLine, 0, len(lines))
	for _, in := range lines {
		total += in.AmountCents
		coLines = append(coLines, types.ChangeOrderLine{
			ID:          uuid.New(),
			CostCodeID:  in.CostCodeID,
			Description: in.Description,
			AmountCents: in.AmountCents,
		})
	}

	order := &types.ChangeOrder{
		ID:         uuid.New(),
		OrgID:      orgID,
		ProjectID:  projectID,
		Title:      title,
		Status:     types.ChangeOrderStatusDraft,
		TotalCents: total,
		DaysImpact: daysImpact,
		Lines:      coLines,
	}
	if _, err := s.changeOrderRepo.Create(ctx, nil, []*types.ChangeOrder{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *changeOrderService) UpdateChangeOrderStatus(ctx context.Context, orgID, orderID uuid.UUID, to types.ChangeOrderStatus) (*types.ChangeOrder, error) {
	orders, err := s.changeOrderRepo.GetByIDs(ctx, nil, []uuid.UUID{orderID})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 || orders[0].OrgID != orgID {
		return nil, apperrors.NotFoundf("change order %s", orderID)
	}
	order := orders[0]

	if order.Status == to {
		return order, nil
	}
	if !types.LegalChangeOrderTransition(order.Status, to) {
		return nil, apperrors.InvalidTransitionf("change order %s → %s", order.Status, to)
	}

	var affected int64
	if to == types.ChangeOrderStatusApproved {
		affected, err = s.changeOrderRepo.ApproveGuarded(ctx, nil, orderID, order.Status, time.Now().UTC())
	} else {
		affected, err = s.changeOrderRepo.UpdateStatusGuarded(ctx, nil, orderID, order.Status, to)
	}
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lost a concurrent transition. Re-read; matching end state means the
		// other writer did our work.
		current, rerr := s.changeOrderRepo.GetByIDs(ctx, nil, []uuid.UUID{orderID})
		if rerr != nil {
			return nil, rerr
		}
		if len(current) == 1 && current[0].Status == to {
			return current[0], nil
		}
		return nil, apperrors.Conflictf("change order %s status changed concurrently", orderID)
	}

	order.Status = to
	return order, nil
}

func (s *changeOrderService) ListChangeOrders(ctx context.Context, orgID, projectID uuid.UUID) ([]*types.ChangeOrder, error) {
	if _, err := resolveProject(ctx, s.projectRepo, orgID, projectID); err != nil {
		return nil, err
	}
	return s.changeOrderRepo.GetByProjectIDs(ctx, nil, []uuid.UUID{projectID})
}

func (s *changeOrderService) ApprovedAdjustmentsByCostCode(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]int64, error) {
	approved, err := s.changeOrderRepo.GetByProjectAndStatuses(ctx, nil, projectID, []types.ChangeOrderStatus{types.ChangeOrderStatusApproved})
	if err != nil {
		return nil, err
	}
	return sumAdjustmentsByCostCode(approved), nil
}

func (s *changeOrderService) PendingAdjustmentTotal(ctx context.Context, projectID uuid.UUID) (int64, error) {
	pending, err := s.changeOrderRepo.GetByProjectAndStatuses(ctx, nil, projectID, types.PendingChangeOrderStatuses)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, co := range pending {
		total += co.TotalCents
	}
	return total, nil
}

// sumAdjustmentsByCostCode sums signed line deltas per cost code. A change
// order's lines may split across many codes; each line lands in its own
// bucket. Lines without a code bucket under uuid.Nil.
func sumAdjustmentsByCostCode(orders []*types.ChangeOrder) map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64)
	for _, co := range orders {
		for i := range co.Lines {
			line := &co.Lines[i]
			out[costCodeBucket(line.CostCodeID)] += line.AmountCents
		}
	}
	return out
}

func changeOrderCostCodeIDs(lines []ChangeOrderLineInput) []uuid.UUID {
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
	return ids
}
