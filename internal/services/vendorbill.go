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

type VendorBillInput struct {
	CommitmentID *uuid.UUID `json:"commitment_id"`
	CostCodeID   *uuid.UUID `json:"cost_code_id"`
	Number       string     `json:"number"`
	TotalCents   int64      `json:"total_cents"`
	BilledAt     *time.Time `json:"billed_at"`
}

type VendorBillService interface {
	CreateVendorBill(ctx context.Context, orgID, projectID uuid.UUID, in VendorBillInput) (*types.VendorBill, error)
	UpdateVendorBillStatus(ctx context.Context, orgID, billID uuid.UUID, to types.VendorBillStatus) (*types.VendorBill, error)
	ListVendorBills(ctx context.Context, orgID, projectID uuid.UUID) ([]*types.VendorBill, error)
}

type vendorBillService struct {
	db             *gorm.DB
	log            *logger.Logger
	projectRepo    repos.ProjectRepo
	costCodeRepo   repos.CostCodeRepo
	commitmentRepo repos.CommitmentRepo
	vendorBillRepo repos.VendorBillRepo
}

func NewVendorBillService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, costCodeRepo repos.CostCodeRepo, commitmentRepo repos.CommitmentRepo, vendorBillRepo repos.VendorBillRepo) VendorBillService {
	return &vendorBillService{
		db:             db,
		log:            log.With("service", "VendorBillService"),
		projectRepo:    projectRepo,
		costCodeRepo:   costCodeRepo,
		commitmentRepo: commitmentRepo,
		vendorBillRepo: vendorBillRepo,
	}
}

func (s *vendorBillService) CreateVendorBill(ctx context.Context, orgID, projectID uuid.UUID, in VendorBillInput) (*types.VendorBill, error) {
	if in.Number == "" {
		return nil, apperrors.Validationf("bill number is required")
	}
	if in.TotalCents < 0 {
		return nil, apperrors.Validationf("bill total must be >= 0, got %d", in.TotalCents)
	}
	if _, err := resolveProject(ctx, s.projectRepo, orgID, projectID); err != nil {
		return nil, err
	}
	if in.CostCodeID != nil {
		if err := validateCostCodeRefs(ctx, s.costCodeRepo, orgID, []uuid.UUID{*in.CostCodeID}); err != nil {
			return nil, err
		}
	}
	if in.CommitmentID != nil {
		commitments, err := s.commitmentRepo.GetByIDs(ctx, nil, []uuid.UUID{*in.CommitmentID})
		if err != nil {
			return nil, err
		}
		if len(commitments) == 0 || commitments[0].OrgID != orgID || commitments[0].ProjectID != projectID {
			return nil, apperrors.NotFoundf("commitment %s on project %s", *in.CommitmentID, projectID)
		}
	}

	bill := &types.VendorBill{
		ID:           uuid.New(),
		OrgID:        orgID,
		ProjectID:    projectID,
		CommitmentID: in.CommitmentID,
		CostCodeID:   in.CostCodeID,
		Number:       in.Number,
		TotalCents:   in.TotalCents,
		Status:       types.VendorBillStatusPending,
		BilledAt:     in.BilledAt,
	}
	if _, err := s.vendorBillRepo.Create(ctx, nil, []*types.VendorBill{bill}); err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *vendorBillService) UpdateVendorBillStatus(ctx context.Context, orgID, billID uuid.UUID, to types.VendorBillStatus) (*types.VendorBill, error) {
	bills, err := s.vendorBillRepo.GetByIDs(ctx, nil, []uuid.UUID{billID})
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 || bills[0].OrgID != orgID {
		return nil, apperrors.NotFoundf("vendor bill %s", billID)
	}
	bill := bills[0]

	if bill.Status == to {
		return bill, nil
	}
	if !types.LegalVendorBillTransition(bill.Status, to) {
		return nil, apperrors.InvalidTransitionf("vendor bill %s → %s", bill.Status, to)
	}

	affected, err := s.vendorBillRepo.UpdateStatusGuarded(ctx, nil, billID, bill.Status, to)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		current, rerr := s.vendorBillRepo.GetByIDs(ctx, nil, []uuid.UUID{billID})
		if rerr != nil {
			return nil, rerr
		}
		if len(current) == 1 && current[0].Status == to {
			return current[0], nil
		}
		return nil, apperrors.Conflictf("vendor bill %s status changed concurrently", billID)
	}

	bill.Status = to
	return bill, nil
}

func (s *vendorBillService) ListVendorBills(ctx context.Context, orgID, projectID uuid.UUID) ([]*types.VendorBill, error) {
	if _, err := resolveProject(ctx, s.projectRepo, orgID, projectID); err != nil {
		return nil, err
	}
	return s.vendorBillRepo.GetByProjectIDs(ctx, nil, []uuid.UUID{projectID})
}
