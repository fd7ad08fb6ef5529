// Package billingapi exposes invoicing and BMI records over HTTP.
package billingapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinichub/clinic-services/internal/handler"
	"github.com/clinichub/clinic-services/internal/model"
	billingsvc "github.com/clinichub/clinic-services/internal/service/billing"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

type Handler struct {
	svc *billingsvc.Service
}

func New(svc *billingsvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	invoices := r.Group("/api/invoices")
	invoices.POST("", h.createInvoice)
	invoices.GET("", h.listInvoices)
	invoices.GET("/stats", h.invoiceStats)
	invoices.GET("/:id", h.getInvoice)
	invoices.PUT("/:id", h.updateInvoice)
	invoices.DELETE("/:id", h.deleteInvoice)

	bmi := r.Group("/api/bmi")
	bmi.POST("/calculate", h.calculateBMI)
	bmi.GET("/records", h.listBMIRecords)
	bmi.DELETE("/records/:id", h.deleteBMIRecord)
}

func (h *Handler) createInvoice(c *gin.Context) {
	var req model.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	inv, err := h.svc.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, gin.H{
		"message": "Invoice created successfully",
		"invoice": inv,
	})
}

func (h *Handler) listInvoices(c *gin.Context) {
	page, perPage := handler.Pagination(c, 20)
	filters := model.InvoiceFilters{
		Status:  c.Query("status"),
		Page:    page,
		PerPage: perPage,
	}
	if raw := c.Query("patient_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			handler.Fail(c, apperr.Validation("invalid patient_id"))
			return
		}
		filters.PatientID = id
	}
	invoices, total, err := h.svc.ListInvoices(c.Request.Context(), filters)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"invoices":     invoices,
		"total":        total,
		"pages":        handler.Pages(total, perPage),
		"current_page": page,
	})
}

func (h *Handler) getInvoice(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	inv, err := h.svc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"invoice": inv})
}

func (h *Handler) updateInvoice(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	var req model.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	inv, err := h.svc.UpdateInvoice(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"message": "Invoice updated successfully",
		"invoice": inv,
	})
}

func (h *Handler) deleteInvoice(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteInvoice(c.Request.Context(), id); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

func (h *Handler) invoiceStats(c *gin.Context) {
	stats, err := h.svc.InvoiceStats(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) calculateBMI(c *gin.Context) {
	var req model.CalculateBMIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	result, err := h.svc.CalculateBMI(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"bmi":      result.BMI,
		"category": result.Category,
		"weight":   result.Weight,
		"height":   result.Height,
	})
}

func (h *Handler) listBMIRecords(c *gin.Context) {
	var patientID int64
	if raw := c.Query("patient_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			handler.Fail(c, apperr.Validation("invalid patient_id"))
			return
		}
		patientID = id
	}
	records, err := h.svc.ListBMIRecords(c.Request.Context(), patientID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"records": records,
		"count":   len(records),
	})
}

func (h *Handler) deleteBMIRecord(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBMIRecord(c.Request.Context(), id); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"message": "BMI record deleted successfully"})
}
