package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brickline/brickline-backend/internal/http/response"
	"github.com/brickline/brickline-backend/internal/pkg/ctxutil"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
	"github.com/brickline/brickline-backend/internal/services"
)

type CostCodeHandler struct {
	log             *logger.Logger
	costCodeService services.CostCodeService
}

func NewCostCodeHandler(log *logger.Logger, costCodeService services.CostCodeService) *CostCodeHandler {
	return &CostCodeHandler{
		log:             log.With("handler", "CostCodeHandler"),
		costCodeService: costCodeService,
	}
}

type createCostCodeRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (h *CostCodeHandler) CreateCostCode(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.OrgID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req createCostCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	code, err := h.costCodeService.CreateCostCode(c.Request.Context(), rd.OrgID, req.Code, req.Name)
	if err != nil {
		h.log.Error("CreateCostCode failed", "error", err, "org_id", rd.OrgID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"cost_code": code})
}

func (h *CostCodeHandler) ListCostCodes(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.OrgID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	codes, err := h.costCodeService.ListCostCodes(c.Request.Context(), rd.OrgID)
	if err != nil {
		h.log.Error("ListCostCodes failed", "error", err, "org_id", rd.OrgID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cost_codes": codes})
}

func (h *CostCodeHandler) DeleteCostCode(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.OrgID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	codeID, err := uuid.Parse(c.Param("costCodeID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_cost_code_id", err)
		return
	}
	if err := h.costCodeService.DeleteCostCode(c.Request.Context(), rd.OrgID, codeID); err != nil {
		h.log.Error("DeleteCostCode failed", "error", err, "cost_code_id", codeID)
		response.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CostCodeHandler) DeprecateCostCode(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.OrgID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	codeID, err := uuid.Parse(c.Param("costCodeID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_cost_code_id", err)
		return
	}
	code, err := h.costCodeService.DeprecateCostCode(c.Request.Context(), rd.OrgID, codeID)
	if err != nil {
		h.log.Error("DeprecateCostCode failed", "error", err, "cost_code_id", codeID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cost_code": code})
}
