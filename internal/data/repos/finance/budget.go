package finance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type BudgetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, budgets []*types.Budget) ([]*types.Budget, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, budgetIDs []uuid.UUID) ([]*types.Budget, error)
	GetByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.Budget, error)
	// MaxVersionForProject returns 0 when the project has no budgets yet.
	// Discarded drafts still count: versions are never reused.
	MaxVersionForProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int, error)
	// GetActiveForProject derives the active budget at read time: the highest
	// version whose status is approved or locked. Returns nil when the project
	// has no active budget.
	GetActiveForProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.Budget, error)
	// UpdateStatusGuarded performs the optimistic transition write: the UPDATE
	// only applies while the row still holds the expected status. Callers
	// inspect the affected-row count to detect a lost race.
	UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, budgetID uuid.UUID, from, to types.BudgetStatus) (int64, error)
}

type budgetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBudgetRepo(db *gorm.DB, baseLog *logger.Logger) BudgetRepo {
	repoLog := baseLog.With("repo", "BudgetRepo")
	return &budgetRepo{db: db, log: repoLog}
}

func (r *budgetRepo) Create(ctx context.Context, tx *gorm.DB, budgets []*types.Budget) ([]*types.Budget, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(budgets) == 0 {
		return []*types.Budget{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *budgetRepo) GetByIDs(ctx context.Context, tx *gorm.DB, budgetIDs []uuid.UUID) ([]*types.Budget, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Budget
	if len(budgetIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", budgetIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *budgetRepo) GetByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.Budget, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Budget
	if len(projectIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Order("version DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *budgetRepo) MaxVersionForProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var maxVersion int
	if err := transaction.WithContext(ctx).
		Model(&types.Budget{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&maxVersion).Error; err != nil {
		return 0, err
	}
	return maxVersion, nil
}

func (r *budgetRepo) GetActiveForProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.Budget, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Budget
	if err := transaction.WithContext(ctx).
		Where("project_id = ? AND status IN ?", projectID, []types.BudgetStatus{
			types.BudgetStatusApproved,
			types.BudgetStatusLocked,
		}).
		Order("version DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *budgetRepo) UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, budgetID uuid.UUID, from, to types.BudgetStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.Budget{}).
		Where("id = ? AND status = ?", budgetID, from).
		Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
