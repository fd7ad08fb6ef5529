// Package authapi exposes the auth service over HTTP.
package authapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinichub/clinic-services/internal/handler"
	"github.com/clinichub/clinic-services/internal/middleware"
	"github.com/clinichub/clinic-services/internal/model"
	authsvc "github.com/clinichub/clinic-services/internal/service/auth"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
)

type Handler struct {
	svc  *authsvc.Service
	auth *middleware.Authenticator
}

func New(svc *authsvc.Service, auth *middleware.Authenticator) *Handler {
	return &Handler{svc: svc, auth: auth}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api/auth")
	api.POST("/register", h.register)
	api.POST("/login", h.login)

	authed := api.Group("", h.auth.Authenticate())
	authed.GET("/me", h.me)
	authed.GET("/validate-token", h.validateToken)

	admin := authed.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.listUsers)
	admin.GET("/users/:id/history", h.loginHistory)
	admin.DELETE("/users/:id", h.deleteUser)
	admin.GET("/stats", h.stats)

	// Self-service update allowed; role changes are admin only.
	authed.PUT("/users/:id", h.updateUser)
}

func (h *Handler) register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	user, token, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, gin.H{
		"message":      "User registered successfully",
		"user":         user,
		"access_token": token,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	user, token, err := h.svc.Login(c.Request.Context(), &req, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"message":      "Login successful",
		"user":         user,
		"access_token": token,
	})
}

func (h *Handler) me(c *gin.Context) {
	claims := middleware.Claims(c)
	user, err := h.svc.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) validateToken(c *gin.Context) {
	claims := middleware.Claims(c)
	user, err := h.svc.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		handler.Fail(c, apperr.Unauthorized("invalid or expired token"))
		return
	}
	if !user.IsActive {
		handler.Fail(c, apperr.Unauthorized("account disabled"))
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"valid":    true,
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *Handler) listUsers(c *gin.Context) {
	page, perPage := handler.Pagination(c, 10)
	filters := model.UserFilters{
		Search:  c.Query("search"),
		Role:    c.Query("role"),
		Page:    page,
		PerPage: perPage,
	}
	users, total, err := h.svc.ListUsers(c.Request.Context(), filters)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"users":        users,
		"total":        total,
		"pages":        handler.Pages(total, perPage),
		"current_page": page,
	})
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	claims := middleware.Claims(c)
	isAdmin := claims.Role == model.RoleAdmin
	if !isAdmin && claims.UserID != id {
		handler.Fail(c, apperr.Forbidden("cannot update another user"))
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err)
		return
	}
	user, err := h.svc.UpdateUser(c.Request.Context(), id, &req, isAdmin)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	if middleware.Claims(c).UserID == id {
		handler.Fail(c, apperr.Validation("cannot delete your own account"))
		return
	}
	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *Handler) loginHistory(c *gin.Context) {
	id, ok := handler.IDParam(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	history, err := h.svc.LoginHistory(c.Request.Context(), id, limit)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, gin.H{
		"user_id": id,
		"history": history,
		"count":   len(history),
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
