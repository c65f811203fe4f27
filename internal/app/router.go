package app

import (
	"github.com/gin-gonic/gin"

	"github.com/brickline/brickline-backend/internal/pkg/logger"
	"github.com/brickline/brickline-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:                log,
		ServiceName:        cfg.ServiceName,
		AuthMiddleware:     middleware.Auth,
		HealthHandler:      handlers.Health,
		CostCodeHandler:    handlers.CostCode,
		BudgetHandler:      handlers.Budget,
		CommitmentHandler:  handlers.Commitment,
		ChangeOrderHandler: handlers.ChangeOrder,
		VendorBillHandler:  handlers.VendorBill,
		VarianceHandler:    handlers.Variance,
		ForecastHandler:    handlers.Forecast,
	})
}
