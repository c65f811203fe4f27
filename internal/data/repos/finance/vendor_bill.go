package finance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type VendorBillRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bills []*types.VendorBill) ([]*types.VendorBill, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, billIDs []uuid.UUID) ([]*types.VendorBill, error)
	GetByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.VendorBill, error)
	// GetByProjectAndStatuses preloads the originating commitment and its
	// lines so the rollup can resolve a cost code for bills that carry none.
	GetByProjectAndStatuses(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, statuses []types.VendorBillStatus) ([]*types.VendorBill, error)
	UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, billID uuid.UUID, from, to types.VendorBillStatus) (int64, error)
}

type vendorBillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVendorBillRepo(db *gorm.DB, baseLog *logger.Logger) VendorBillRepo {
	repoLog := baseLog.With("repo", "VendorBillRepo")
	return &vendorBillRepo{db: db, log: repoLog}
}

func (r *vendorBillRepo) Create(ctx context.Context, tx *gorm.DB, bills []*types.VendorBill) ([]*types.VendorBill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(bills) == 0 {
		return []*types.VendorBill{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *vendorBillRepo) GetByIDs(ctx context.Context, tx *gorm.DB, billIDs []uuid.UUID) ([]*types.VendorBill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.VendorBill
	if len(billIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", billIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *vendorBillRepo) GetByProjectIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.VendorBill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.VendorBill
	if len(projectIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *vendorBillRepo) GetByProjectAndStatuses(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, statuses []types.VendorBillStatus) ([]*types.VendorBill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.VendorBill
	if len(statuses) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Commitment").
		Preload("Commitment.Lines").
		Where("project_id = ? AND status IN ?", projectID, statuses).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *vendorBillRepo) UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, billID uuid.UUID, from, to types.VendorBillStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.VendorBill{}).
		Where("id = ? AND status = ?", billID, from).
		Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
