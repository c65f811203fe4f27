package finance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type CommitmentLineRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lines []*types.CommitmentLine) ([]*types.CommitmentLine, error)
	GetByCommitmentIDs(ctx context.Context, tx *gorm.DB, commitmentIDs []uuid.UUID) ([]*types.CommitmentLine, error)
}

type commitmentLineRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommitmentLineRepo(db *gorm.DB, baseLog *logger.Logger) CommitmentLineRepo {
	repoLog := baseLog.With("repo", "CommitmentLineRepo")
	return &commitmentLineRepo{db: db, log: repoLog}
}

func (r *commitmentLineRepo) Create(ctx context.Context, tx *gorm.DB, lines []*types.CommitmentLine) ([]*types.CommitmentLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lines) == 0 {
		return []*types.CommitmentLine{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *commitmentLineRepo) GetByCommitmentIDs(ctx context.Context, tx *gorm.DB, commitmentIDs []uuid.UUID) ([]*types.CommitmentLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CommitmentLine
	if len(commitmentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("commitment_id IN ?", commitmentIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
