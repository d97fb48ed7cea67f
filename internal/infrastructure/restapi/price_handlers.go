package restapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/pkg/utils"
)

// PriceHandler exposes the price resolver.
type PriceHandler struct {
	resolver port.PriceResolver
	logger   port.Logger
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(resolver port.PriceResolver, logger port.Logger) *PriceHandler {
	return &PriceHandler{resolver: resolver, logger: logger}
}

// GetPricesHandler resolves ?symbols=SOL,USDC. The whole request fails if any symbol cannot be priced.
func (h *PriceHandler) GetPricesHandler(c *gin.Context) {
	var symbols []string
	for _, raw := range c.QueryArray("symbols") {
		for _, s := range strings.Split(raw, ",") {
			symbols = append(symbols, strings.TrimSpace(s))
		}
	}
	symbols = utils.UniqueNonEmpty(symbols)
	if len(symbols) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "missing_symbols", "message": "query parameter 'symbols' is required"}})
		return
	}

	prices, err := h.resolver.ResolvePrices(c.Request.Context(), symbols)
	if err != nil {
		h.logger.Warn("Price request failed", "symbols", symbols, "request_id", requestID(c), "error", err)
		writeError(c, "", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

// ClearCacheHandler drops every cached price.
func (h *PriceHandler) ClearCacheHandler(c *gin.Context) {
	h.resolver.ClearCache()
	c.Status(http.StatusNoContent)
}
