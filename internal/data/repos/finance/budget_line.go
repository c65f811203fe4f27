package finance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type BudgetLineRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lines []*types.BudgetLine) ([]*types.BudgetLine, error)
	GetByBudgetIDs(ctx context.Context, tx *gorm.DB, budgetIDs []uuid.UUID) ([]*types.BudgetLine, error)
	DeleteByBudgetIDs(ctx context.Context, tx *gorm.DB, budgetIDs []uuid.UUID) error
	// ReplaceForBudget atomically swaps the budget's line set inside the given
	// transaction. Callers must pass a real transaction; a reader sees either
	// the old set or the new one, never a mix.
	ReplaceForBudget(ctx context.Context, tx *gorm.DB, budgetID uuid.UUID, lines []*types.BudgetLine) ([]*types.BudgetLine, error)
}

type budgetLineRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBudgetLineRepo(db *gorm.DB, baseLog *logger.Logger) BudgetLineRepo {
	repoLog := baseLog.With("repo", "BudgetLineRepo")
	return &budgetLineRepo{db: db, log: repoLog}
}

func (r *budgetLineRepo) Create(ctx context.Context, tx *gorm.DB, lines []*types.BudgetLine) ([]*types.BudgetLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lines) == 0 {
		return []*types.BudgetLine{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *budgetLineRepo) GetByBudgetIDs(ctx context.Context, tx *gorm.DB, budgetIDs []uuid.UUID) ([]*types.BudgetLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.BudgetLine
	if len(budgetIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("budget_id IN ?", budgetIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *budgetLineRepo) DeleteByBudgetIDs(ctx context.Context, tx *gorm.DB, budgetIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(budgetIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("budget_id IN ?", budgetIDs).
		Delete(&types.BudgetLine{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *budgetLineRepo) ReplaceForBudget(ctx context.Context, tx *gorm.DB, budgetID uuid.UUID, lines []*types.BudgetLine) ([]*types.BudgetLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	replace := func(t *gorm.DB) error {
		if err := t.WithContext(ctx).
			Where("budget_id = ?", budgetID).
			Delete(&types.BudgetLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return t.WithContext(ctx).Create(&lines).Error
	}

	if err := transaction.Transaction(replace); err != nil {
		return nil, err
	}
	return lines, nil
}
