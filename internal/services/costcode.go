package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brickline/brickline-backend/internal/data/repos"
	types "github.com/brickline/brickline-backend/internal/domain"
	apperrors "github.com/brickline/brickline-backend/internal/pkg/errors"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type CostCodeService interface {
	CreateCostCode(ctx context.Context, orgID uuid.UUID, code, name string) (*types.CostCode, error)
	ListCostCodes(ctx context.Context, orgID uuid.UUID) ([]*types.CostCode, error)
	// DeprecateCostCode retires a code from new postings. Codes referenced by
	// financial rows are never deleted; deprecation keeps history readable.
	DeprecateCostCode(ctx context.Context, orgID, codeID uuid.UUID) (*types.CostCode, error)
	// DeleteCostCode hard-deletes an unreferenced code. Once any financial row
	// points at the code, delete is refused and deprecation is the only way out.
	DeleteCostCode(ctx context.Context, orgID, codeID uuid.UUID) error
}

type costCodeService struct {
	db           *gorm.DB
	log          *logger.Logger
	costCodeRepo repos.CostCodeRepo
}

func NewCostCodeService(db *gorm.DB, log *logger.Logger, costCodeRepo repos.CostCodeRepo) CostCodeService {
	return &costCodeService{
		db:           db,
		log:          log.With("service", "CostCodeService"),
		costCodeRepo: costCodeRepo,
	}
}

func (s *costCodeService) CreateCostCode(ctx context.Context, orgID uuid.UUID, code, name string) (*types.CostCode, error) {
	if code == "" {
		return nil, apperrors.Validationf("cost code is required")
	}
	if name == "" {
		return nil, apperrors.Validationf("cost code name is required")
	}

	cc := &types.CostCode{
		ID:    uuid.New(),
		OrgID: orgID,
		Code:  code,
		Name:  name,
	}
	if _, err := s.costCodeRepo.Create(ctx, nil, []*types.CostCode{cc}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("cost code %s already exists", code)
		}
		return nil, err
	}
	return cc, nil
}

func (s *costCodeService) ListCostCodes(ctx context.Context, orgID uuid.UUID) ([]*types.CostCode, error) {
	return s.costCodeRepo.GetByOrgIDs(ctx, nil, []uuid.UUID{orgID})
}

func (s *costCodeService) DeprecateCostCode(ctx context.Context, orgID, codeID uuid.UUID) (*types.CostCode, error) {
	codes, err := s.costCodeRepo.GetByIDs(ctx, nil, []uuid.UUID{codeID})
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 || codes[0].OrgID != orgID {
		return nil, apperrors.NotFoundf("cost code %s", codeID)
	}
	code := codes[0]
	if code.DeprecatedAt != nil {
		return code, nil
	}

	now := time.Now().UTC()
	if err := s.costCodeRepo.Deprecate(ctx, nil, codeID, now); err != nil {
		return nil, err
	}
	code.DeprecatedAt = &now
	return code, nil
}

func (s *costCodeService) DeleteCostCode(ctx context.Context, orgID, codeID uuid.UUID) error {
	codes, err := s.costCodeRepo.GetByIDs(ctx, nil, []uuid.UUID{codeID})
	if err != nil {
		return err
	}
	if len(codes) == 0 || codes[0].OrgID != orgID {
		return apperrors.NotFoundf("cost code %s", codeID)
	}

	// The reference count and the delete share a transaction so a row posted
	// between check and delete cannot orphan itself.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs, err := s.costCodeRepo.CountReferences(ctx, tx, codeID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return apperrors.InvalidStatef("cost code %s has %d financial references; deprecate it instead", codes[0].Code, refs)
		}
		return s.costCodeRepo.Delete(ctx, tx, codeID)
	})
}
