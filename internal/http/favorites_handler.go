package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crypto-dash/internal/service"
)

// FavoritesHandler mantiene dependencias para los endpoints de favoritos.
type FavoritesHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

func NewFavoritesHandler(logger *zap.Logger, userServ *service.UserService) *FavoritesHandler {
	return &FavoritesHandler{
		logger:   logger,
		userServ: userServ,
	}
}

// List maneja GET /favorites.
func (h *FavoritesHandler) List(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	favorites, err := h.userServ.ListFavorites(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list favorites failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load favorites"})
		return
	}

	c.JSON(http.StatusOK, favorites)
}

// Add maneja POST /favorites.
func (h *FavoritesHandler) Add(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		Symbol string `json:"symbol" binding:"required"`
		Name   string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid add favorite request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol and name are required"})
		return
	}

	fav, err := h.userServ.AddFavorite(c.Request.Context(), claims.UserID, req.Symbol, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFavoriteExists):
			c.JSON(http.StatusConflict, gin.H{"error": "already in favorites"})
		case errors.Is(err, service.ErrInvalidFavorite):
			c.JSON(http.StatusBadRequest, gin.H{"error": "symbol and name are required"})
		default:
			h.logger.Error("add favorite failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add favorite"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "favorite": fav})
}

// Remove maneja DELETE /favorites?symbol=x.
func (h *FavoritesHandler) Remove(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol query parameter is required"})
		return
	}

	removed, err := h.userServ.RemoveFavorite(c.Request.Context(), claims.UserID, symbol)
	if err != nil {
		h.logger.Error("remove favorite failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove favorite"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "removed": true})
}
