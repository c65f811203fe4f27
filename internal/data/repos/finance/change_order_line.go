package finance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type ChangeOrderLineRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lines []*types.ChangeOrderLine) ([]*types.ChangeOrderLine, error)
	GetByChangeOrderIDs(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) ([]*types.ChangeOrderLine, error)
}

type changeOrderLineRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChangeOrderLineRepo(db *gorm.DB, baseLog *logger.Logger) ChangeOrderLineRepo {
	repoLog := baseLog.With("repo", "ChangeOrderLineRepo")
	return &changeOrderLineRepo{db: db, log: repoLog}
}

func (r *changeOrderLineRepo) Create(ctx context.Context, tx *gorm.DB, lines []*types.ChangeOrderLine) ([]*types.ChangeOrderLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lines) == 0 {
		return []*types.ChangeOrderLine{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *changeOrderLineRepo) GetByChangeOrderIDs(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) ([]*types.ChangeOrderLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChangeOrderLine
	if len(orderIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("change_order_id IN ?", orderIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
