package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/http/response"
	"github.com/brickline/brickline-backend/internal/pkg/ctxutil"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
	"github.com/brickline/brickline-backend/internal/services"
)

type ChangeOrderHandler struct {
	log                *logger.Logger
	changeOrderService services.ChangeOrderService
}

func NewChangeOrderHandler(log *logger.Logger, changeOrderService services.ChangeOrderService) *ChangeOrderHandler {
	return &ChangeOrderHandler{
		log:                log.With("handler", "ChangeOrderHandler"),
		changeOrderService: changeOrderService,
	}
}

type createChangeOrderRequest struct {
	Title      string                          `json:"title"`
	DaysImpact int                             `json:"days_impact"`
	Lines      []services.ChangeOrderLineInput `json:"lines"`
}

type updateChangeOrderStatusRequest struct {
	Status types.ChangeOrderStatus `json:"status"`
}

func (h *ChangeOrderHandler) CreateChangeOrder(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.OrgID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	projectID, err := uuid.Parse(c.Param("projectID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	var req createChangeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	order, err := h.changeOrderService.CreateChangeOrder(c.Request.Context(), rd.OrgID, projectID, req.Title, req.DaysImpact, req.Lines)
	if err != nil {
		h.log.Error("CreateChangeOrder failed", "error", err, "project_id", projectID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"change_order": order})
}

func (h *ChangeOrderHandler) UpdateChangeOrderStatus(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.OrgID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	orderID, err := uuid.Parse(c.Param("changeOrderID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_change_order_id", err)
		return
	}
	var req updateChangeOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	order, err := h.changeOrderService.UpdateChangeOrderStatus(c.Request.Context(), rd.OrgID, orderID, req.Status)
	if err != nil {
		h.log.Error("UpdateChangeOrderStatus failed", "error", err, "change_order_id", orderID, "status", req.Status)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"change_order": order})
}

func (h *ChangeOrderHandler) ListChangeOrders(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.OrgID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	projectID, err := uuid.Parse(c.Param("projectID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	orders, err := h.changeOrderService.ListChangeOrders(c.Request.Context(), rd.OrgID, projectID)
	if err != nil {
		h.log.Error("ListChangeOrders failed", "error", err, "project_id", projectID)
		response.RespondAppError(c, err)
		return
	}
	pending, err := h.changeOrderService.PendingAdjustmentTotal(c.Request.Context(), projectID)
	if err != nil {
		h.log.Error("PendingAdjustmentTotal failed", "error", err, "project_id", projectID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"change_orders":              orders,
		"pending_change_order_cents": pending,
	})
}
