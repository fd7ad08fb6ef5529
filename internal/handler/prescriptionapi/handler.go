// Package prescriptionapi exposes the prescription register over HTTP.
package prescriptionapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinichub/clinic-services/internal/handler"
	"github.com/clinichub/clinic-services/internal/model"
	prescriptionsvc "github.com/clinichub/clinic-services/internal/service/prescription"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

type Handler struct {
	svc *prescriptionsvc.Service
}

func New(svc *prescriptionsvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api/prescriptions")
	api.POST("", h.create)
	api.GET("", h.list)
	api.GET("/check-expiry", h.checkExpiry)
	api.GET("/stats", h.stats)
	api.GET("/patient/:patient_id", h.listByPatient)
	api.GET("/:id", h.get)
	api.PUT("/:id", h.update)
	api.DELETE("/:id", h.delete)
	api.POST("/:id/medications", h.addMedication)
	api.DELETE("/medications/:medication_id", h.deleteMedication)
}

func (h *Handler) create(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, gin.H{
		"message":      "Prescription created successfully",
		"prescription": p,
	})
}

func (h *Handler) list(c *gin.Context) {
	page, perPage := handler.Pagination(c, 10)
	filters := model.PrescriptionFilters{
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
	prescriptions, total, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"prescriptions": prescriptions,
		"total":         total,
		"pages":         handler.Pages(total, perPage),
		"current_page":  page,
	})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"prescription": p})
}

func (h *Handler) listByPatient(c *gin.Context) {
	patientID, ok := handler.IDParam(c, "patient_id")
	if !ok {
		return
	}
	prescriptions, err := h.svc.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"prescriptions": prescriptions,
		"count":         len(prescriptions),
	})
}

func (h *Handler) checkExpiry(c *gin.Context) {
	prescriptions, err := h.svc.CheckExpiry(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"prescriptions": prescriptions,
		"count":         len(prescriptions),
	})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	var req model.UpdatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"message":      "Prescription updated successfully",
		"prescription": p,
	})
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"message": "Prescription deleted successfully"})
}

func (h *Handler) addMedication(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	var req model.MedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	line, err := h.svc.AddMedication(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, gin.H{
		"message":    "Medication added successfully",
		"medication": line,
	})
}

func (h *Handler) deleteMedication(c *gin.Context) {
	medicationID, ok := handler.IDParam(c, "medication_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteMedication(c.Request.Context(), medicationID); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"message": "Medication removed successfully"})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"stats": stats})
}
