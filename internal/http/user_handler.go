package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crypto-dash/internal/service"
)

// UserHandler mantiene dependencias para los endpoints de perfil y ajustes.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

func NewUserHandler(logger *zap.Logger, userServ *service.UserService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
	}
}

// GetProfile maneja GET /user/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := h.userServ.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		h.logger.Error("get profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile maneja PUT /user/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var update service.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Warn("invalid profile update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.UpdateProfile(c.Request.Context(), claims.UserID, update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoUpdates):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no valid fields to update"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		default:
			h.logger.Error("update profile failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateSettings maneja PUT /user/settings.
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var update service.SettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Warn("invalid settings update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.UpdateSettings(c.Request.Context(), claims.UserID, update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidVisibility):
			c.JSON(http.StatusBadRequest, gin.H{"error": "profileVisibility must be public, friends or private"})
		case errors.Is(err, service.ErrNoUpdates):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no valid settings to update"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		default:
			h.logger.Error("update settings failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update settings"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword maneja POST /user/password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid password change request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "current and new password are required"})
		return
	}

	_, err := h.userServ.ChangePassword(c.Request.Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		var policyErr *service.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "new password too weak", "details": policyErr.Errors})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "current password is incorrect"})
		case errors.Is(err, service.ErrRateLimited):
			c.Header("Retry-After", "900")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, try again later"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		default:
			h.logger.Error("change password failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not change password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
