// Package doctorapi exposes the doctor directory over HTTP.
package doctorapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinichub/clinic-services/internal/handler"
	"github.com/clinichub/clinic-services/internal/model"
	doctorsvc "github.com/clinichub/clinic-services/internal/service/doctor"
)

type Handler struct {
	svc *doctorsvc.Service
}

func New(svc *doctorsvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api/doctors")
	api.POST("", h.create)
	api.GET("", h.list)
	api.GET("/available", h.listAvailable)
	api.GET("/stats", h.stats)
	api.GET("/specializations", h.listSpecializations)
	api.POST("/specializations", h.createSpecialization)
	api.GET("/:id", h.get)
	api.PUT("/:id", h.update)
	api.POST("/:id/toggle-status", h.toggleStatus)
	api.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	doctor, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, gin.H{
		"message": "Doctor created successfully",
		"doctor":  doctor,
	})
}

func (h *Handler) list(c *gin.Context) {
	page, perPage := handler.Pagination(c, 10)
	filters := model.DoctorFilters{
		Search:         c.Query("search"),
		Specialization: c.Query("specialization"),
		City:           c.Query("city"),
		Page:           page,
		PerPage:        perPage,
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err == nil {
			filters.IsActive = &active
		}
	}
	doctors, total, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"doctors":      doctors,
		"total":        total,
		"pages":        handler.Pages(total, perPage),
		"current_page": page,
	})
}

func (h *Handler) listAvailable(c *gin.Context) {
	doctors, err := h.svc.ListAvailable(c.Request.Context(), c.Query("day"), c.Query("specialization"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	doctor, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"doctor": doctor})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	doctor, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"message": "Doctor updated successfully",
		"doctor":  doctor,
	})
}

func (h *Handler) toggleStatus(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	doctor, err := h.svc.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	msg := "Doctor deactivated successfully"
	if doctor.IsActive {
		msg = "Doctor activated successfully"
	}
	handler.OK(c, http.StatusOK, gin.H{
		"message": msg,
		"doctor":  doctor,
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
	handler.OK(c, http.StatusOK, gin.H{"message": "Doctor deleted successfully"})
}

func (h *Handler) listSpecializations(c *gin.Context) {
	specs, err := h.svc.ListSpecializations(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"specializations": specs,
		"count":           len(specs),
	})
}

func (h *Handler) createSpecialization(c *gin.Context) {
	var req model.CreateSpecializationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	spec, err := h.svc.CreateSpecialization(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, gin.H{
		"message":        "Specialization created successfully",
		"specialization": spec,
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
