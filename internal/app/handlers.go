package app

import (
	"github.com/brickline/brickline-backend/internal/http/handlers"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type Handlers struct {
	Health      *handlers.HealthHandler
	CostCode    *handlers.CostCodeHandler
	Budget      *handlers.BudgetHandler
	Commitment  *handlers.CommitmentHandler
	ChangeOrder *handlers.ChangeOrderHandler
	VendorBill  *handlers.VendorBillHandler
	Variance    *handlers.VarianceHandler
	Forecast    *handlers.ForecastHandler
}

func wireHandlers(log *logger.Logger, cfg Config, s Services, c Clients) Handlers {
	return Handlers{
		Health:      handlers.NewHealthHandler(),
		CostCode:    handlers.NewCostCodeHandler(log, s.CostCode),
		Budget:      handlers.NewBudgetHandler(log, s.Budget, c.Idempotency),
		Commitment:  handlers.NewCommitmentHandler(log, s.Commitment),
		ChangeOrder: handlers.NewChangeOrderHandler(log, s.ChangeOrder),
		VendorBill:  handlers.NewVendorBillHandler(log, s.VendorBill),
		Variance:    handlers.NewVarianceHandler(log, s.Variance, cfg.Thresholds),
		Forecast:    handlers.NewForecastHandler(log, s.Forecast),
	}
}
