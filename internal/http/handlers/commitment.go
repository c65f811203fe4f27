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

type CommitmentHandler struct {
	log               *logger.Logger
	commitmentService services.CommitmentService
}

func NewCommitmentHandler(log *logger.Logger, commitmentService services.CommitmentService) *CommitmentHandler {
	return &CommitmentHandler{
		log:               log.With("handler", "CommitmentHandler"),
		commitmentService: commitmentService,
	}
}

type createCommitmentRequest struct {
	CompanyID uuid.UUID                      `json:"company_id"`
	Title     string                         `json:"title"`
	Lines     []services.CommitmentLineInput `json:"lines"`
}

type updateCommitmentStatusRequest struct {
	Status types.CommitmentStatus `json:"status"`
}

func (h *CommitmentHandler) CreateCommitment(c *gin.Context) {
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
	var req createCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	commitment, err := h.commitmentService.CreateCommitment(c.Request.Context(), rd.OrgID, projectID, req.CompanyID, req.Title, req.Lines)
	if err != nil {
		h.log.Error("CreateCommitment failed", "error", err, "project_id", projectID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"commitment": commitment})
}

func (h *CommitmentHandler) UpdateCommitmentStatus(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.OrgID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	commitmentID, err := uuid.Parse(c.Param("commitmentID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_commitment_id", err)
		return
	}
	var req updateCommitmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	commitment, err := h.commitmentService.UpdateCommitmentStatus(c.Request.Context(), rd.OrgID, commitmentID, req.Status)
	if err != nil {
		h.log.Error("UpdateCommitmentStatus failed", "error", err, "commitment_id", commitmentID, "status", req.Status)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"commitment": commitment})
}

func (h *CommitmentHandler) ListCommitments(c *gin.Context) {
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
	commitments, err := h.commitmentService.ListCommitments(c.Request.Context(), rd.OrgID, projectID)
	if err != nil {
		h.log.Error("ListCommitments failed", "error", err, "project_id", projectID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"commitments": commitments})
}
