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

type ForecastHandler struct {
	log             *logger.Logger
	forecastService services.ForecastService
}

func NewForecastHandler(log *logger.Logger, forecastService services.ForecastService) *ForecastHandler {
	return &ForecastHandler{
		log:             log.With("handler", "ForecastHandler"),
		forecastService: forecastService,
	}
}

func (h *ForecastHandler) GetForecastReport(c *gin.Context) {
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
	report, err := h.forecastService.GetForecastReport(c.Request.Context(), rd.OrgID, projectID)
	if err != nil {
		h.log.Error("GetForecastReport failed", "error", err, "project_id", projectID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, report)
}
