package service

import (
	"context"
	"fmt"
	"time"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/clock"
	"portfolio_dashboard/internal/pkg/metrics"
	"portfolio_dashboard/internal/pkg/utils"
)

// PortfolioServiceImpl implements port.PortfolioService.
type PortfolioServiceImpl struct {
	aggregator port.AccountAggregator
	valuator   port.PortfolioValuator
	network    entity.NetworkDefinition
	clock      clock.Clock
	logger     port.Logger
}

// NewPortfolioService creates a new instance of PortfolioServiceImpl.
func NewPortfolioService(
	agg port.AccountAggregator,
	val port.PortfolioValuator,
	network entity.NetworkDefinition,
	clk clock.Clock,
	l port.Logger,
) port.PortfolioService {
	if clk == nil {
		clk = clock.Real()
	}
	return &PortfolioServiceImpl{
		aggregator: agg,
		valuator:   val,
		network:    network,
		clock:      clk,
		logger:     l,
	}
}

// FetchPortfolio aggregates and values the assets of walletAddress. Only an invalid
// address or a failed aggregation is an error; pricing problems degrade the snapshot.
func (s *PortfolioServiceImpl) FetchPortfolio(ctx context.Context, walletAddress string) (*entity.PortfolioSnapshot, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.PortfolioFetchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	if err := utils.ValidateSolanaAddress(walletAddress); err != nil {
		outcome = "invalid_address"
		s.logger.Warn("Rejected portfolio request", "wallet_address", walletAddress, "error", err)
		return nil, err
	}

	s.logger.Debug("Fetching portfolio", "wallet_address", walletAddress, "network", s.network.Identifier)
	assets, err := s.aggregator.FetchAssets(ctx, walletAddress)
	if err != nil {
		s.logger.Error("Failed to aggregate wallet assets", "wallet_address", walletAddress, "error", err)
		return nil, fmt.Errorf("failed to fetch portfolio for %s: %w", walletAddress, err)
	}

	valuation := s.valuator.Valuate(ctx, assets.NativeBalanceBaseUnits, assets.Holdings)

	snapshot := &entity.PortfolioSnapshot{
		WalletAddress:          walletAddress,
		NetworkIdentifier:      s.network.Identifier,
		NativeSymbol:           s.network.NativeSymbol,
		NativeBalanceBaseUnits: assets.NativeBalanceBaseUnits,
		NativeQuantity:         valuation.NativeQuantity,
		NativePriceUSD:         valuation.NativePriceUSD,
		Holdings:               assets.Holdings,
		HoldingValuations:      valuation.Holdings,
		TotalValueUSD:          valuation.TotalValueUSD,
		PricesAvailable:        valuation.PricesAvailable,
		ExcludedSymbols:        valuation.ExcludedSymbols,
		FetchedAt:              s.clock.Now(),
	}

	outcome = "ok"
	if !valuation.PricesAvailable {
		outcome = "degraded"
	}
	s.logger.Info("Portfolio fetched",
		"wallet_address", walletAddress,
		"holdings", len(assets.Holdings),
		"total_value_usd", valuation.TotalValueUSD,
		"prices_available", valuation.PricesAvailable)
	return snapshot, nil
}
