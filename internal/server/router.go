package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/brickline/brickline-backend/internal/http/handlers"
	"github.com/brickline/brickline-backend/internal/http/middleware"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log                *logger.Logger
	ServiceName        string
	AuthMiddleware     *middleware.AuthMiddleware
	HealthHandler      *handlers.HealthHandler
	CostCodeHandler    *handlers.CostCodeHandler
	BudgetHandler      *handlers.BudgetHandler
	CommitmentHandler  *handlers.CommitmentHandler
	ChangeOrderHandler *handlers.ChangeOrderHandler
	VendorBillHandler  *handlers.VendorBillHandler
	VarianceHandler    *handlers.VarianceHandler
	ForecastHandler    *handlers.ForecastHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Cost codes
	api.POST("/cost-codes", cfg.CostCodeHandler.CreateCostCode)
	api.GET("/cost-codes", cfg.CostCodeHandler.ListCostCodes)
	api.POST("/cost-codes/:costCodeID/deprecate", cfg.CostCodeHandler.DeprecateCostCode)
	api.DELETE("/cost-codes/:costCodeID", cfg.CostCodeHandler.DeleteCostCode)

	// Budgets
	api.POST("/projects/:projectID/budgets", cfg.BudgetHandler.CreateBudget)
	api.POST("/projects/:projectID/budgets/duplicate", cfg.BudgetHandler.DuplicateBudget)
	api.GET("/projects/:projectID/budget-breakdown", cfg.BudgetHandler.GetBudgetBreakdown)
	api.PUT("/budgets/:budgetID/lines", cfg.BudgetHandler.ReplaceBudgetLines)
	api.PATCH("/budgets/:budgetID/status", cfg.BudgetHandler.UpdateBudgetStatus)

	// Commitments
	api.POST("/projects/:projectID/commitments", cfg.CommitmentHandler.CreateCommitment)
	api.GET("/projects/:projectID/commitments", cfg.CommitmentHandler.ListCommitments)
	api.PATCH("/commitments/:commitmentID/status", cfg.CommitmentHandler.UpdateCommitmentStatus)

	// Change orders
	api.POST("/projects/:projectID/change-orders", cfg.ChangeOrderHandler.CreateChangeOrder)
	api.GET("/projects/:projectID/change-orders", cfg.ChangeOrderHandler.ListChangeOrders)
	api.PATCH("/change-orders/:changeOrderID/status", cfg.ChangeOrderHandler.UpdateChangeOrderStatus)

	// Vendor bills
	api.POST("/projects/:projectID/vendor-bills", cfg.VendorBillHandler.CreateVendorBill)
	api.GET("/projects/:projectID/vendor-bills", cfg.VendorBillHandler.ListVendorBills)
	api.PATCH("/vendor-bills/:vendorBillID/status", cfg.VendorBillHandler.UpdateVendorBillStatus)

	// Variance + forecast
	api.POST("/projects/:projectID/variance-scan", cfg.VarianceHandler.RunScan)
	api.GET("/projects/:projectID/variance-alerts", cfg.VarianceHandler.ListAlerts)
	api.PATCH("/variance-alerts/:alertID/status", cfg.VarianceHandler.UpdateAlertStatus)
	api.GET("/projects/:projectID/forecast", cfg.ForecastHandler.GetForecastReport)

	return router
}
