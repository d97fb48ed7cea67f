package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/utils"
)

// HoldingDisplay carries the display strings of one holding.
type HoldingDisplay struct {
	Mint   string `json:"mint"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
	// ExactAmount keeps every significant decimal of the on-chain amount.
	ExactAmount string `json:"exactAmount"`
	Value       string `json:"value"`
}

// PortfolioDisplay carries the display strings of a snapshot.
type PortfolioDisplay struct {
	WalletAddress string           `json:"walletAddress"`
	NativeBalance string           `json:"nativeBalance"`
	NativePrice   string           `json:"nativePrice"`
	TotalValue    string           `json:"totalValue"`
	Holdings      []HoldingDisplay `json:"holdings"`
}

// APIPortfolioResponse defines the response of the portfolio endpoint.
type APIPortfolioResponse struct {
	Data          *entity.PortfolioSnapshot `json:"data"`
	Display       PortfolioDisplay          `json:"display"`
	StatusMessage string                    `json:"status_message"`
}

// PortfolioHandler handles portfolio HTTP requests.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	nativeDecimals   uint8
	logger           port.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(ps port.PortfolioService, network entity.NetworkDefinition, logger port.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: ps,
		nativeDecimals:   network.NativeDecimals,
		logger:           logger,
	}
}

// GetWalletPortfolioHandler godoc
// @Summary      Portfolio of a wallet
// @Param        walletAddress path string true "base58 wallet address"
// @Success      200 {object} APIPortfolioResponse
// @Failure      400,502 {object} APIError
// @Router       /portfolios/{walletAddress} [get]
func (h *PortfolioHandler) GetWalletPortfolioHandler(c *gin.Context) {
	walletAddress := c.Param("walletAddress")

	snapshot, err := h.portfolioService.FetchPortfolio(c.Request.Context(), walletAddress)
	if err != nil {
		h.logger.Warn("Portfolio request failed", "wallet_address", walletAddress, "request_id", requestID(c), "error", err)
		writeError(c, walletAddress, err)
		return
	}

	resp := APIPortfolioResponse{
		Data:          snapshot,
		Display:       buildDisplay(snapshot, h.nativeDecimals),
		StatusMessage: "Portfolio retrieved successfully.",
	}
	if !snapshot.PricesAvailable {
		resp.StatusMessage = "Portfolio retrieved. Prices are currently unavailable."
	} else if len(snapshot.ExcludedSymbols) > 0 {
		resp.StatusMessage = "Portfolio retrieved. Some tokens could not be priced."
	}
	c.JSON(http.StatusOK, resp)
}

func buildDisplay(s *entity.PortfolioSnapshot, nativeDecimals uint8) PortfolioDisplay {
	d := PortfolioDisplay{
		WalletAddress: utils.TruncateAddress(s.WalletAddress, 8, 8),
		NativeBalance: utils.FormatNativeBalance(s.NativeBalanceBaseUnits, nativeDecimals),
		NativePrice:   utils.PriceUnavailableLabel,
		TotalValue:    utils.PriceUnavailableLabel,
		Holdings:      make([]HoldingDisplay, 0, len(s.Holdings)),
	}
	if s.PricesAvailable {
		d.NativePrice = utils.FormatUSD(s.NativePriceUSD)
		d.TotalValue = utils.FormatUSD(s.TotalValueUSD)
	}

	for i, h := range s.Holdings {
		amount, err := utils.FormatTokenAmount(h.RawAmount, h.Decimals)
		if err != nil {
			amount = h.RawAmount
		}
		exact, err := utils.FormatAmount(h.RawAmount, h.Decimals)
		if err != nil {
			exact = h.RawAmount
		}
		value := utils.PriceUnavailableLabel
		if i < len(s.HoldingValuations) && s.HoldingValuations[i].Priced {
			value = utils.FormatUSD(s.HoldingValuations[i].ValueUSD)
		}
		d.Holdings = append(d.Holdings, HoldingDisplay{
			Mint:        h.Mint,
			Symbol:      h.Symbol,
			Name:        h.Name,
			Amount:      amount,
			ExactAmount: exact,
			Value:       value,
		})
	}
	return d
}
