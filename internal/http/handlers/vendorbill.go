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

type VendorBillHandler struct {
	log               *logger.Logger
	vendorBillService services.VendorBillService
}

func NewVendorBillHandler(log *logger.Logger, vendorBillService services.VendorBillService) *VendorBillHandler {
	return &VendorBillHandler{
		log:               log.With("handler", "VendorBillHandler"),
		vendorBillService: vendorBillService,
	}
}

type updateVendorBillStatusRequest struct {
	Status types.VendorBillStatus `json:"status"`
}

func (h *VendorBillHandler) CreateVendorBill(c *gin.Context) {
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
	var req services.VendorBillInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	bill, err := h.vendorBillService.CreateVendorBill(c.Request.Context(), rd.OrgID, projectID, req)
	if err != nil {
		h.log.Error("CreateVendorBill failed", "error", err, "project_id", projectID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"vendor_bill": bill})
}

func (h *VendorBillHandler) UpdateVendorBillStatus(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.OrgID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	billID, err := uuid.Parse(c.Param("vendorBillID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_vendor_bill_id", err)
		return
	}
	var req updateVendorBillStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	bill, err := h.vendorBillService.UpdateVendorBillStatus(c.Request.Context(), rd.OrgID, billID, req.Status)
	if err != nil {
		h.log.Error("UpdateVendorBillStatus failed", "error", err, "vendor_bill_id", billID, "status", req.Status)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"vendor_bill": bill})
}

func (h *VendorBillHandler) ListVendorBills(c *gin.Context) {
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
	bills, err := h.vendorBillService.ListVendorBills(c.Request.Context(), rd.OrgID, projectID)
	if err != nil {
		h.log.Error("ListVendorBills failed", "error", err, "project_id", projectID)
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"vendor_bills": bills})
}
