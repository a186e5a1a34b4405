package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crypto-dash/internal/market"
)

// CryptoHandler expone el proxy de datos de mercado.
type CryptoHandler struct {
	logger  *zap.Logger
	markets *market.Service
}

func NewCryptoHandler(logger *zap.Logger, markets *market.Service) *CryptoHandler {
	return &CryptoHandler{
		logger:  logger,
		markets: markets,
	}
}

// Markets maneja GET /crypto.
func (h *CryptoHandler) Markets(c *gin.Context) {
	currency := c.DefaultQuery("vs_currency", "eur")

	entries, err := h.markets.Markets(c.Request.Context(), currency)
	if err != nil {
		if errors.Is(err, market.ErrUpstreamUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market data unavailable"})
			return
		}
		h.logger.Error("markets fetch failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market data unavailable"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Coin maneja GET /crypto/:id con query vs_currency, days y type.
func (h *CryptoHandler) Coin(c *gin.Context) {
	id := c.Param("id")
	currency := c.DefaultQuery("vs_currency", "eur")
	kind := c.DefaultQuery("type", "details")
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive number"})
		return
	}
	if kind != "details" && kind != "chart" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be details or chart"})
		return
	}

	payload, err := h.markets.Coin(c.Request.Context(), id, currency, days, kind)
	if err != nil {
		h.logger.Error("coin fetch failed", zap.String("coin", id), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market data unavailable"})
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}
