// Package medicineapi exposes the medicine inventory over HTTP.
package medicineapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinichub/clinic-services/internal/handler"
	"github.com/clinichub/clinic-services/internal/model"
	medicinesvc "github.com/clinichub/clinic-services/internal/service/medicine"
)

type Handler struct {
	svc *medicinesvc.Service
}

func New(svc *medicinesvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api/medicines")
	api.POST("", h.create)
	api.GET("", h.list)
	api.GET("/low-stock", h.listLowStock)
	api.GET("/expiring", h.listExpiring)
	api.GET("/stats", h.stats)
	api.GET("/categories", h.listCategories)
	api.POST("/categories", h.createCategory)
	api.GET("/:id", h.get)
	api.PUT("/:id", h.update)
	api.DELETE("/:id", h.delete)
	api.GET("/:id/stock", h.getStock)
	api.POST("/:id/stock/update", h.updateStock)
	api.GET("/:id/history", h.stockHistory)
}

func (h *Handler) create(c *gin.Context) {
	var req model.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	m, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, gin.H{
		"message":  "Medicine created successfully",
		"medicine": m,
	})
}

func (h *Handler) list(c *gin.Context) {
	page, perPage := handler.Pagination(c, 10)
	filters := model.MedicineFilters{
		Search:      c.Query("search"),
		Category:    c.Query("category"),
		StockStatus: c.Query("stock_status"),
		Page:        page,
		PerPage:     perPage,
	}
	medicines, total, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"medicines":    medicines,
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
	includeHistory, _ := strconv.ParseBool(c.DefaultQuery("include_history", "false"))
	m, err := h.svc.Get(c.Request.Context(), id, includeHistory)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"medicine": m})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	var req model.UpdateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	m, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"message":  "Medicine updated successfully",
		"medicine": m,
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
	handler.OK(c, http.StatusOK, gin.H{"message": "Medicine deleted successfully"})
}

func (h *Handler) getStock(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	m, err := h.svc.Get(c.Request.Context(), id, false)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"medicine_id": m.ID,
		"stock":       m.StockQuantity,
		"min_level":   m.MinStockLevel,
		"status":      m.StockStatus,
	})
}

func (h *Handler) updateStock(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	var req model.StockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	m, err := h.svc.UpdateStock(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"message":  "Stock updated successfully",
		"medicine": m,
	})
}

func (h *Handler) stockHistory(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	page, perPage := handler.Pagination(c, 20)
	m, history, total, err := h.svc.StockHistory(c.Request.Context(), id, page, perPage)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"medicine":     m.Name,
		"history":      history,
		"total":        total,
		"pages":        handler.Pages(total, perPage),
		"current_page": page,
	})
}

func (h *Handler) listLowStock(c *gin.Context) {
	medicines, err := h.svc.ListLowStock(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"medicines": medicines,
		"count":     len(medicines),
	})
}

func (h *Handler) listExpiring(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	medicines, err := h.svc.ListExpiring(c.Request.Context(), days)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"medicines": medicines,
		"count":     len(medicines),
		"days":      days,
	})
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

func (h *Handler) createCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	category, err := h.svc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
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
