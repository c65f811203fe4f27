package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type ChangeOrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, orders []*types.ChangeOrder) ([]*types.ChangeOrder, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) ([]*types.ChangeOrder, error)
	GetByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.ChangeOrder, error)
	GetByProjectAndStatuses(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, statuses []types.ChangeOrderStatus) ([]*types.ChangeOrder, error)
	UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, from, to types.ChangeOrderStatus) (int64, error)
	// ApproveGuarded is the transition that moves money from "pending" to the
	// adjusted budget, so it also stamps approved_at in the same write.
	ApproveGuarded(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, from types.ChangeOrderStatus, at time.Time) (int64, error)
}

type changeOrderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChangeOrderRepo(db *gorm.DB, baseLog *logger.Logger) ChangeOrderRepo {
	repoLog := baseLog.With("repo", "ChangeOrderRepo")
	return &changeOrderRepo{db: db, log: repoLog}
}

func (r *changeOrderRepo) Create(ctx context.Context, tx *gorm.DB, orders []*types.ChangeOrder) ([]*types.ChangeOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(orders) == 0 {
		return []*types.ChangeOrder{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *changeOrderRepo) GetByIDs(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) ([]*types.ChangeOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChangeOrder
	if len(orderIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Lines").
		Where("id IN ?", orderIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *changeOrderRepo) GetByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.ChangeOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChangeOrder
	if len(projectIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Lines").
		Where("project_id IN ?", projectIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *changeOrderRepo) GetByProjectAndStatuses(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, statuses []types.ChangeOrderStatus) ([]*types.ChangeOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChangeOrder
	if len(statuses) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Lines").
		Where("project_id = ? AND status IN ?", projectID, statuses).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *changeOrderRepo) UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, from, to types.ChangeOrderStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.ChangeOrder{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *changeOrderRepo) ApproveGuarded(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, from types.ChangeOrderStatus, at time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.ChangeOrder{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]interface{}{
			"status":      types.ChangeOrderStatusApproved,
			"approved_at": at,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
