package restapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_dashboard/internal/app/service"
	"portfolio_dashboard/internal/domain/entity"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Error     entity.PortfolioError `json:"error"`
	RequestID string                `json:"requestId,omitempty"`
}

func statusAndCode(err error) (int, string) {
	var (
		invalid      *entity.InvalidAddressError
		rpcErr       *entity.RPCError
		unresolvable *entity.UnresolvableSymbolsError
		priceErr     *entity.PriceServiceError
	)
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, "invalid_address"
	case errors.As(err, &unresolvable):
		return http.StatusUnprocessableEntity, "unresolvable_symbols"
	case errors.As(err, &priceErr):
		return http.StatusBadGateway, "price_service_unavailable"
	case errors.As(err, &rpcErr):
		return http.StatusBadGateway, "rpc_unavailable"
	case errors.Is(err, service.ErrNoWalletConnected):
		return http.StatusConflict, "no_wallet_connected"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeError(c *gin.Context, walletAddress string, err error) {
	status, code := statusAndCode(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, APIError{
		Error: entity.PortfolioError{
			WalletAddress: walletAddress,
			Code:          code,
			Message:       service.UserMessage(err),
		},
		RequestID: requestID(c),
	})
}
