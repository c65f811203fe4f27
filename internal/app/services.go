package app

import (
	"gorm.io/gorm"

	"github.com/brickline/brickline-backend/internal/pkg/logger"
	"github.com/brickline/brickline-backend/internal/services"
)

type Services struct {
	CostCode    services.CostCodeService
	Rollup      services.RollupService
	ChangeOrder services.ChangeOrderService
	Budget      services.BudgetService
	Commitment  services.CommitmentService
	VendorBill  services.VendorBillService
	Variance    services.VarianceService
	Forecast    services.ForecastService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	costCodeService := services.NewCostCodeService(db, log, r.CostCode)
	rollupService := services.NewRollupService(db, log, r.Commitment, r.VendorBill)
	changeOrderService := services.NewChangeOrderService(db, log, r.Project, r.CostCode, r.ChangeOrder)
	budgetService := services.NewBudgetService(db, log, r.Project, r.CostCode, r.Budget, r.BudgetLine, rollupService, changeOrderService)
	commitmentService := services.NewCommitmentService(db, log, r.Project, r.Company, r.CostCode, r.Commitment)
	vendorBillService := services.NewVendorBillService(db, log, r.Project, r.CostCode, r.Commitment, r.VendorBill)
	varianceService := services.NewVarianceService(db, log, r.Project, r.VarianceAlert, budgetService)
	forecastService := services.NewForecastService(db, log, r.BudgetLine, budgetService)

	return Services{
		CostCode:    costCodeService,
		Rollup:      rollupService,
		ChangeOrder: changeOrderService,
		Budget:      budgetService,
		Commitment:  commitmentService,
		VendorBill:  vendorBillService,
		Variance:    varianceService,
		Forecast:    forecastService,
	}
}
