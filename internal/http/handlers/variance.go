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

type VarianceHandler struct {
	log             *logger.Logger
	varianceService services.VarianceService
	thresholds      services.Thresholds
}

// NewVarianceHandler takes the org-wide default thresholds; a scan request may
// override them per call.
func NewVarianceHandler(log *logger.Logger, varianceService services.VarianceService, thresholds services.Thresholds) *VarianceHandler {
	return &VarianceHandler{
		log:             log.With("handler", "VarianceHandler"),
		varianceService: varianceService,
		thresholds:      thresholds,
	}
}

type runScanRequest struct {
	ApproachingPercent *int `json:"approaching_percent"`
	OverrunPercent     *int `json:"overrun_percent"`
}

type updateAlertStatusRequest struct {
	Status types.VarianceAlertStatus `json:"status"`
}

func (h *VarianceHandler) RunScan(c *gin.Context) {
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
	var req runScanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}
	thresholds := h.thresholds
	if req.ApproachingPercent != nil {
		thresholds.ApproachingPercent = *req.ApproachingPercent
	}
	if req.OverrunPercent != nil {
		thresholds.OverrunPercent = *req.OverrunPercent
	}

	result, err := h.varianceService.CheckVarianceAlerts(c.Request.Context(), rd.OrgID, projectID, thresholds)
	if err != nil {
		h.log.Error("RunScan failed", "error", err, "project_id", projectID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scan": result})
}

func (h *VarianceHandler) UpdateAlertStatus(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.OrgID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	alertID, err := uuid.Parse(c.Param("alertID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_alert_id", err)
		return
	}
	var req updateAlertStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	alert, err := h.varianceService.AcknowledgeAlert(c.Request.Context(), rd.OrgID, alertID, req.Status)
	if err != nil {
		h.log.Error("UpdateAlertStatus failed", "error", err, "alert_id", alertID, "status", req.Status)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"alert": alert})
}

func (h *VarianceHandler) ListAlerts(c *gin.Context) {
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
	alerts, err := h.varianceService.ListAlerts(c.Request.Context(), rd.OrgID, projectID)
	if err != nil {
		h.log.Error("ListAlerts failed", "error", err, "project_id", projectID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"alerts": alerts})
}
