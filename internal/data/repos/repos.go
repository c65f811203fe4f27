package repos

import (
	"gorm.io/gorm"

	"github.com/brickline/brickline-backend/internal/data/repos/finance"
	"github.com/brickline/brickline-backend/internal/data/repos/org"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type ProjectRepo = org.ProjectRepo
type CompanyRepo = org.CompanyRepo
type CostCodeRepo = org.CostCodeRepo

type BudgetRepo = finance.BudgetRepo
type BudgetLineRepo = finance.BudgetLineRepo
type CommitmentRepo = finance.CommitmentRepo
type CommitmentLineRepo = finance.CommitmentLineRepo
type ChangeOrderRepo = finance.ChangeOrderRepo
type ChangeOrderLineRepo = finance.ChangeOrderLineRepo
type VendorBillRepo = finance.VendorBillRepo
type VarianceAlertRepo = finance.VarianceAlertRepo

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return org.NewProjectRepo(db, baseLog)
}
func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	return org.NewCompanyRepo(db, baseLog)
}
func NewCostCodeRepo(db *gorm.DB, baseLog *logger.Logger) CostCodeRepo {
	return org.NewCostCodeRepo(db, baseLog)
}

func NewBudgetRepo(db *gorm.DB, baseLog *logger.Logger) BudgetRepo {
	return finance.NewBudgetRepo(db, baseLog)
}
func NewBudgetLineRepo(db *gorm.DB, baseLog *logger.Logger) BudgetLineRepo {
	return finance.NewBudgetLineRepo(db, baseLog)
}
func NewCommitmentRepo(db *gorm.DB, baseLog *logger.Logger) CommitmentRepo {
	return finance.NewCommitmentRepo(db, baseLog)
}
func NewCommitmentLineRepo(db *gorm.DB, baseLog *logger.Logger) CommitmentLineRepo {
	return finance.NewCommitmentLineRepo(db, baseLog)
}
func NewChangeOrderRepo(db *gorm.DB, baseLog *logger.Logger) ChangeOrderRepo {
	return finance.NewChangeOrderRepo(db, baseLog)
}
func NewChangeOrderLineRepo(db *gorm.DB, baseLog *logger.Logger) ChangeOrderLineRepo {
	return finance.NewChangeOrderLineRepo(db, baseLog)
}
func NewVendorBillRepo(db *gorm.DB, baseLog *logger.Logger) VendorBillRepo {
	return finance.NewVendorBillRepo(db, baseLog)
}
func NewVarianceAlertRepo(db *gorm.DB, baseLog *logger.Logger) VarianceAlertRepo {
	return finance.NewVarianceAlertRepo(db, baseLog)
}
