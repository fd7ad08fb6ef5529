// Package appointmentapi exposes appointment scheduling over HTTP.
package appointmentapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinichub/clinic-services/internal/handler"
	"github.com/clinichub/clinic-services/internal/model"
	appointmentsvc "github.com/clinichub/clinic-services/internal/service/appointment"
)

type Handler struct {
	svc *appointmentsvc.Service
}

func New(svc *appointmentsvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api/appointments")
	api.POST("", h.book)
	api.GET("", h.list)
	api.GET("/stats", h.stats)
	api.POST("/update-past", h.completeDue)
	api.GET("/patient/:patient_id", h.listByPatient)
	api.GET("/:id", h.get)
	api.PUT("/:id", h.update)
	api.DELETE("/:id", h.delete)
}

func (h *Handler) book(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	appt, err := h.svc.Book(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, gin.H{
		"message":     "Appointment booked successfully",
		"appointment": appt,
	})
}

func (h *Handler) list(c *gin.Context) {
	page, perPage := handler.Pagination(c, 10)
	filters := model.AppointmentFilters{
		Status:  c.Query("status"),
		Date:    c.Query("date"),
		Page:    page,
		PerPage: perPage,
	}
	appointments, total, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"appointments": appointments,
		"total":        total,
		"pages":        handler.Pages(total, perPage),
		"current_page": page,
	})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	appt, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"appointment": appt})
}

func (h *Handler) listByPatient(c *gin.Context) {
	patientID, ok := handler.IDParam(c, "patient_id")
	if !ok {
		return
	}
	appointments, err := h.svc.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	appt, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"message":     "Appointment updated successfully",
		"appointment": appt,
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
	handler.OK(c, http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

func (h *Handler) completeDue(c *gin.Context) {
	updated, err := h.svc.CompleteDue(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"message":       "Past appointments updated",
		"updated_count": updated,
	})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"stats": stats})
}
