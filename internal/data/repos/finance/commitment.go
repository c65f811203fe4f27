package finance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type CommitmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, commitments []*types.Commitment) ([]*types.Commitment, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, commitmentIDs []uuid.UUID) ([]*types.Commitment, error)
	GetByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.Commitment, error)
	// GetByProjectAndStatuses loads commitments with their lines preloaded.
	// The rollup calls this with the committed statuses.
	GetByProjectAndStatuses(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, statuses []types.CommitmentStatus) ([]*types.Commitment, error)
	UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, commitmentID uuid.UUID, from, to types.CommitmentStatus) (int64, error)
}

type commitmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommitmentRepo(db *gorm.DB, baseLog *logger.Logger) CommitmentRepo {
	repoLog := baseLog.With("repo", "CommitmentRepo")
	return &commitmentRepo{db: db, log: repoLog}
}

func (r *commitmentRepo) Create(ctx context.Context, tx *gorm.DB, commitments []*types.Commitment) ([]*types.Commitment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(commitments) == 0 {
		return []*types.Commitment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&commitments).Error; err != nil {
		return nil, err
	}
	return commitments, nil
}

func (r *commitmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, commitmentIDs []uuid.UUID) ([]*types.Commitment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Commitment
	if len(commitmentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Lines").
		Where("id IN ?", commitmentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *commitmentRepo) GetByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.Commitment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Commitment
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

func (r *commitmentRepo) GetByProjectAndStatuses(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, statuses []types.CommitmentStatus) ([]*types.Commitment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Commitment
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

func (r *commitmentRepo) UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, commitmentID uuid.UUID, from, to types.CommitmentStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.Commitment{}).
		Where("id = ? AND status = ?", commitmentID, from).
		Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
