package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brickline/brickline-backend/internal/clients/redis"
	types "github.com/brickline/brickline-backend/internal/domain"
	"github.com/brickline/brickline-backend/internal/http/response"
	"github.com/brickline/brickline-backend/internal/pkg/ctxutil"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
	"github.com/brickline/brickline-backend/internal/services"
)

const headerIdempotencyKey = "Idempotency-Key"

type BudgetHandler struct {
	log           *logger.Logger
	budgetService services.BudgetService
	idempotency   redis.IdempotencyStore
}

// NewBudgetHandler accepts a nil idempotency store; replay protection is then
// skipped and every create mints a new version.
func NewBudgetHandler(log *logger.Logger, budgetService services.BudgetService, idempotency redis.IdempotencyStore) *BudgetHandler {
	return &BudgetHandler{
		log:           log.With("handler", "BudgetHandler"),
		budgetService: budgetService,
		idempotency:   idempotency,
	}
}

type createBudgetRequest struct {
	Status types.BudgetStatus         `json:"status"`
	Lines  []services.BudgetLineInput `json:"lines"`
}

type replaceBudgetLinesRequest struct {
	Lines []services.BudgetLineInput `json:"lines"`
}

type updateBudgetStatusRequest struct {
	Status types.BudgetStatus `json:"status"`
}

type duplicateBudgetRequest struct {
	FromBudgetID uuid.UUID `json:"from_budget_id"`
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
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
	var req createBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	if replayed, ok := h.replayedBudget(c, rd.OrgID); ok {
		response.RespondOK(c, gin.H{"budget_id": replayed, "replayed": true})
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), rd.OrgID, projectID, req.Lines, req.Status)
	if err != nil {
		h.log.Error("CreateBudget failed", "error", err, "project_id", projectID)
		response.RespondAppError(c, err)
		return
	}
	h.reserveKey(c, budget.ID)
	response.RespondCreated(c, gin.H{"budget": budget})
}

func (h *BudgetHandler) DuplicateBudget(c *gin.Context) {
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
	var req duplicateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	if replayed, ok := h.replayedBudget(c, rd.OrgID); ok {
		response.RespondOK(c, gin.H{"budget_id": replayed, "replayed": true})
		return
	}

	budget, err := h.budgetService.DuplicateBudgetVersion(c.Request.Context(), rd.OrgID, projectID, req.FromBudgetID)
	if err != nil {
		h.log.Error("DuplicateBudget failed", "error", err, "project_id", projectID, "from_budget_id", req.FromBudgetID)
		response.RespondAppError(c, err)
		return
	}
	h.reserveKey(c, budget.ID)
	response.RespondCreated(c, gin.H{"budget": budget})
}

func (h *BudgetHandler) ReplaceBudgetLines(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.OrgID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	budgetID, err := uuid.Parse(c.Param("budgetID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_budget_id", err)
		return
	}
	var req replaceBudgetLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	budget, err := h.budgetService.ReplaceBudgetLines(c.Request.Context(), rd.OrgID, budgetID, req.Lines)
	if err != nil {
		h.log.Error("ReplaceBudgetLines failed", "error", err, "budget_id", budgetID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"budget": budget})
}

func (h *BudgetHandler) UpdateBudgetStatus(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.OrgID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	budgetID, err := uuid.Parse(c.Param("budgetID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_budget_id", err)
		return
	}
	var req updateBudgetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	budget, err := h.budgetService.UpdateBudgetStatus(c.Request.Context(), rd.OrgID, budgetID, req.Status)
	if err != nil {
		h.log.Error("UpdateBudgetStatus failed", "error", err, "budget_id", budgetID, "status", req.Status)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"budget": budget})
}

func (h *BudgetHandler) GetBudgetBreakdown(c *gin.Context) {
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
	breakdown, err := h.budgetService.GetBudgetWithActuals(c.Request.Context(), rd.OrgID, projectID)
	if err != nil {
		h.log.Error("GetBudgetBreakdown failed", "error", err, "project_id", projectID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, breakdown)
}

// replayedBudget short-circuits a retried create when the Idempotency-Key was
// already claimed by an earlier attempt.
func (h *BudgetHandler) replayedBudget(c *gin.Context, orgID uuid.UUID) (uuid.UUID, bool) {
	if h.idempotency == nil {
		return uuid.Nil, false
	}
	key := c.GetHeader(headerIdempotencyKey)
	if key == "" {
		return uuid.Nil, false
	}
	existing, err := h.idempotency.Lookup(c.Request.Context(), orgID.String()+":"+key)
	if err != nil {
		h.log.Warn("idempotency lookup failed (continuing)", "error", err.Error())
		return uuid.Nil, false
	}
	if existing == "" {
		return uuid.Nil, false
	}
	budgetID, err := uuid.Parse(existing)
	if err != nil {
		return uuid.Nil, false
	}
	return budgetID, true
}

func (h *BudgetHandler) reserveKey(c *gin.Context, budgetID uuid.UUID) {
	if h.idempotency == nil {
		return
	}
	key := c.GetHeader(headerIdempotencyKey)
	if key == "" {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		return
	}
	if _, _, err := h.idempotency.Reserve(c.Request.Context(), rd.OrgID.String()+":"+key, budgetID.String()); err != nil {
		h.log.Warn("idempotency reserve failed (continuing)", "error", err.Error())
	}
}
