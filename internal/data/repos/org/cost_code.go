package org

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type CostCodeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, codes []*types.CostCode) ([]*types.CostCode, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, codeIDs []uuid.UUID) ([]*types.CostCode, error)
	GetByOrgIDs(ctx context.Context, tx *gorm.DB, orgIDs []uuid.UUID) ([]*types.CostCode, error)
	// CountReferences reports how many posted financial rows point at the cost
	// code across budget lines, commitment lines, change order lines, and
	// vendor bills. A referenced code may only be deprecated.
	CountReferences(ctx context.Context, tx *gorm.DB, codeID uuid.UUID) (int64, error)
	Deprecate(ctx context.Context, tx *gorm.DB, codeID uuid.UUID, at time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, codeID uuid.UUID) error
}

type costCodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCostCodeRepo(db *gorm.DB, baseLog *logger.Logger) CostCodeRepo {
	repoLog := baseLog.With("repo", "CostCodeRepo")
	return &costCodeRepo{db: db, log: repoLog}
}

func (r *costCodeRepo) Create(ctx context.Context, tx *gorm.DB, codes []*types.CostCode) ([]*types.CostCode, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(codes) == 0 {
		return []*types.CostCode{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *costCodeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, codeIDs []uuid.UUID) ([]*types.CostCode, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CostCode
	if len(codeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", codeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *costCodeRepo) GetByOrgIDs(ctx context.Context, tx *gorm.DB, orgIDs []uuid.UUID) ([]*types.CostCode, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CostCode
	if len(orgIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("org_id IN ?", orgIDs).
		Order("code ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *costCodeRepo) CountReferences(ctx context.Context, tx *gorm.DB, codeID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var total int64
	for _, model := range []interface{}{
		&types.BudgetLine{},
		&types.CommitmentLine{},
		&types.ChangeOrderLine{},
		&types.VendorBill{},
	} {
		var count int64
		if err := transaction.WithContext(ctx).
			Model(model).
			Where("cost_code_id = ?", codeID).
			Count(&count).Error; err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

func (r *costCodeRepo) Delete(ctx context.Context, tx *gorm.DB, codeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", codeID).
		Delete(&types.CostCode{}).Error
}

func (r *costCodeRepo) Deprecate(ctx context.Context, tx *gorm.DB, codeID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.CostCode{}).
		Where("id = ?", codeID).
		Update("deprecated_at", at).Error
}
