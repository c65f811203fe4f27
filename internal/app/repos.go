package app

import (
	"gorm.io/gorm"

	"github.com/brickline/brickline-backend/internal/data/repos"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type Repos struct {
	Project         repos.ProjectRepo
	Company         repos.CompanyRepo
	CostCode        repos.CostCodeRepo
	Budget          repos.BudgetRepo
	BudgetLine      repos.BudgetLineRepo
	Commitment      repos.CommitmentRepo
	CommitmentLine  repos.CommitmentLineRepo
	ChangeOrder     repos.ChangeOrderRepo
	ChangeOrderLine repos.ChangeOrderLineRepo
	VendorBill      repos.VendorBillRepo
	VarianceAlert   repos.VarianceAlertRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Project:         repos.NewProjectRepo(db, log),
		Company:         repos.NewCompanyRepo(db, log),
		CostCode:        repos.NewCostCodeRepo(db, log),
		Budget:          repos.NewBudgetRepo(db, log),
		BudgetLine:      repos.NewBudgetLineRepo(db, log),
		Commitment:      repos.NewCommitmentRepo(db, log),
		CommitmentLine:  repos.NewCommitmentLineRepo(db, log),
		ChangeOrder:     repos.NewChangeOrderRepo(db, log),
		ChangeOrderLine: repos.NewChangeOrderLineRepo(db, log),
		VendorBill:      repos.NewVendorBillRepo(db, log),
		VarianceAlert:   repos.NewVarianceAlertRepo(db, log),
	}
}
