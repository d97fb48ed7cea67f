package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/utils"
)

// portfolioValuatorImpl implements port.PortfolioValuator
type portfolioValuatorImpl struct {
	resolver       port.PriceResolver
	nativeSymbol   string
	nativeDecimals uint8
	logger         port.Logger
}

// NewPortfolioValuator creates a valuator pricing the native asset of network.
func NewPortfolioValuator(resolver port.PriceResolver, network entity.NetworkDefinition, l port.Logger) port.PortfolioValuator {
	return &portfolioValuatorImpl{
		resolver:       resolver,
		nativeSymbol:   network.NativeSymbol,
		nativeDecimals: network.NativeDecimals,
		logger:         l,
	}
}

// Valuate implements port.PortfolioValuator.
//
// Holdings and the native asset are priced concurrently. If the holdings batch cannot
// be priced every holding contributes zero and is reported in ExcludedSymbols. If the
// native price cannot be resolved the valuation is marked unavailable and every USD
// figure is zero; quantities are always populated.
func (v *portfolioValuatorImpl) Valuate(ctx context.Context, nativeBalanceBaseUnits uint64, holdings []entity.AssetHolding) entity.Valuation {
	val := entity.Valuation{
		NativeQuantity:  utils.BaseUnitsToQuantity(nativeBalanceBaseUnits, v.nativeDecimals),
		Holdings:        make([]entity.HoldingValuation, 0, len(holdings)),
		ExcludedSymbols: []string{},
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	symbols = utils.UniqueNonEmpty(symbols)

	var (
		holdingPrices map[string]float64
		holdingsErr   error
		nativePrice   float64
		nativeErr     error
	)

	// Both legs swallow their errors so that neither cancels the other.
	var g errgroup.Group
	if len(symbols) > 0 {
		g.Go(func() error {
			holdingPrices, holdingsErr = v.resolver.ResolvePrices(ctx, symbols)
			return nil
		})
	}
	g.Go(func() error {
		nativePrice, nativeErr = v.resolver.ResolvePrice(ctx, v.nativeSymbol)
		return nil
	})
	_ = g.Wait()

	if holdingsErr != nil {
		v.logger.Warn("Failed to price token holdings, valuing them at zero", "symbols", symbols, "error", holdingsErr)
		holdingPrices = nil
	}
	val.PricesAvailable = nativeErr == nil
	if !val.PricesAvailable {
		v.logger.Warn("Native price unavailable, showing portfolio without USD values",
			"symbol", v.nativeSymbol, "error", nativeErr)
		holdingPrices = nil
	} else {
		val.NativePriceUSD = nativePrice
		val.NativeValueUSD = val.NativeQuantity * nativePrice
	}

	excluded := make(map[string]struct{})
	for _, h := range holdings {
		hv := entity.HoldingValuation{Mint: h.Mint, Symbol: h.Symbol}
		qty, err := utils.ToHumanQuantity(h.RawAmount, h.Decimals)
		if err != nil {
			v.logger.Debug("Skipping holding with unparsable amount", "mint", h.Mint, "amount", h.RawAmount, "error", err)
		}
		hv.Quantity = qty

		price, ok := holdingPrices[h.Symbol]
		if ok && price > 0 && err == nil {
			value, verr := utils.CalculateValueUSD(h.RawAmount, h.Decimals, price)
			if verr == nil {
				hv.PriceUSD = price
				hv.ValueUSD = value
				hv.Priced = true
				val.TokenValueUSD += value
			}
		}
		if !hv.Priced {
			if _, seen := excluded[h.Symbol]; !seen && h.Symbol != "" {
				excluded[h.Symbol] = struct{}{}
				val.ExcludedSymbols = append(val.ExcludedSymbols, h.Symbol)
			}
		}
		val.Holdings = append(val.Holdings, hv)
	}

	val.TotalValueUSD = val.TokenValueUSD + val.NativeValueUSD
	return val
}
