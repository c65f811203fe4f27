package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brickline/brickline-backend/internal/data/repos"
	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

// RollupService aggregates committed (subcontract/PO) and actual (vendor
// bill) spend per cost code for a project. It owns no state: every call
// recomputes from the latest rows, so the rollup is always consistent with
// the data at query time.
//
// Map keys are cost code ids; uuid.Nil is the explicit "unallocated" bucket
// for lines and bills without a cost code, so bucket sums always reconcile
// with the qualifying line totals.
type RollupService interface {
	CommittedByCostCode(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]int64, error)
	ActualByCostCode(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]int64, error)
}

type rollupService struct {
	db             *gorm.DB
	log            *logger.Logger
	commitmentRepo repos.CommitmentRepo
	vendorBillRepo repos.VendorBillRepo
}

func NewRollupService(db *gorm.DB, log *logger.Logger, commitmentRepo repos.CommitmentRepo, vendorBillRepo repos.VendorBillRepo) RollupService {
	return &rollupService{
		db:             db,
		log:            log.With("service", "RollupService"),
		commitmentRepo: commitmentRepo,
		vendorBillRepo: vendorBillRepo,
	}
}

func (s *rollupService) CommittedByCostCode(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]int64, error) {
	commitments, err := s.commitmentRepo.GetByProjectAndStatuses(ctx, nil, projectID, committedStatuses())
	if err != nil {
		return nil, err
	}
	return sumCommittedByCostCode(commitments), nil
}

func (s *rollupService) ActualByCostCode(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]int64, error) {
	bills, err := s.vendorBillRepo.GetByProjectAndStatuses(ctx, nil, projectID, actualStatuses())
	if err != nil {
		return nil, err
	}
	return sumActualByCostCode(bills), nil
}

func committedStatuses() []types.CommitmentStatus {
	return []types.CommitmentStatus{types.CommitmentStatusApproved, types.CommitmentStatusComplete}
}

func actualStatuses() []types.VendorBillStatus {
	return []types.VendorBillStatus{
		types.VendorBillStatusApproved,
		types.VendorBillStatusPartial,
		types.VendorBillStatusPaid,
	}
}

func sumCommittedByCostCode(commitments []*types.Commitment) map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64)
	for _, c := range commitments {
		for i := range c.Lines {
			line := &c.Lines[i]
			out[costCodeBucket(line.CostCodeID)] += line.AmountCents()
		}
	}
	return out
}

func sumActualByCostCode(bills []*types.VendorBill) map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64)
	for _, b := range bills {
		out[billCostCodeBucket(b)] += b.TotalCents
	}
	return out
}

func costCodeBucket(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

// billCostCodeBucket resolves the bucket for a vendor bill: the bill's own
// cost code wins; a bill without one inherits the cost code of its
// originating commitment when all of that commitment's lines agree on a
// single code. Anything else lands in the unallocated bucket rather than
// being dropped.
func billCostCodeBucket(b *types.VendorBill) uuid.UUID {
	if b == nil {
		return uuid.Nil
	}
	if b.CostCodeID != nil {
		return *b.CostCodeID
	}
	if b.Commitment == nil || len(b.Commitment.Lines) == 0 {
		return uuid.Nil
	}
	first := b.Commitment.Lines[0].CostCodeID
	if first == nil {
		return uuid.Nil
	}
	for i := range b.Commitment.Lines {
		code := b.Commitment.Lines[i].CostCodeID
		if code == nil || *code != *first {
			return uuid.Nil
		}
	}
	return *first
}
