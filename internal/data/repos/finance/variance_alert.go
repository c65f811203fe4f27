package finance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type VarianceAlertRepo interface {
	Create(ctx context.Context, tx *gorm.DB, alerts []*types.VarianceAlert) ([]*types.VarianceAlert, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, alertIDs []uuid.UUID) ([]*types.VarianceAlert, error)
	GetByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.VarianceAlert, error)
	// GetOpenByKey finds the single open alert for the detector's upsert key.
	// costCodeID nil addresses the unallocated bucket. Returns nil when no
	// open alert exists.
	GetOpenByKey(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, costCodeID *uuid.UUID, budgetID uuid.UUID) (*types.VarianceAlert, error)
	// UpdateObserved refreshes an open alert in place; the type upgrades when
	// a cost code crosses from approaching into overrun.
	UpdateObserved(ctx context.Context, tx *gorm.DB, alertID uuid.UUID, alertType types.VarianceAlertType, observedPercent int64, thresholdPercent int) error
	UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, alertID uuid.UUID, from, to types.VarianceAlertStatus) (int64, error)
}

type varianceAlertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVarianceAlertRepo(db *gorm.DB, baseLog *logger.Logger) VarianceAlertRepo {
	repoLog := baseLog.With("repo", "VarianceAlertRepo")
	return &varianceAlertRepo{db: db, log: repoLog}
}

func (r *varianceAlertRepo) Create(ctx context.Context, tx *gorm.DB, alerts []*types.VarianceAlert) ([]*types.VarianceAlert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(alerts) == 0 {
		return []*types.VarianceAlert{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *varianceAlertRepo) GetByIDs(ctx context.Context, tx *gorm.DB, alertIDs []uuid.UUID) ([]*types.VarianceAlert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.VarianceAlert
	if len(alertIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", alertIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *varianceAlertRepo) GetByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.VarianceAlert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.VarianceAlert
	if len(projectIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *varianceAlertRepo) GetOpenByKey(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, costCodeID *uuid.UUID, budgetID uuid.UUID) (*types.VarianceAlert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Where("project_id = ? AND budget_id = ? AND status = ?", projectID, budgetID, types.VarianceAlertStatusOpen)
	if costCodeID == nil {
		query = query.Where("cost_code_id IS NULL")
	} else {
		query = query.Where("cost_code_id = ?", *costCodeID)
	}

	var results []*types.VarianceAlert
	if err := query.Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *varianceAlertRepo) UpdateObserved(ctx context.Context, tx *gorm.DB, alertID uuid.UUID, alertType types.VarianceAlertType, observedPercent int64, thresholdPercent int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.VarianceAlert{}).
		Where("id = ?", alertID).
		Updates(map[string]interface{}{
			"type":              alertType,
			"observed_percent":  observedPercent,
			"threshold_percent": thresholdPercent,
		}).Error
}

func (r *varianceAlertRepo) UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, alertID uuid.UUID, from, to types.VarianceAlertStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.VarianceAlert{}).
		Where("id = ? AND status = ?", alertID, from).
		Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
