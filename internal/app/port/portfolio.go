package port

import (
	"context"

	"portfolio_dashboard/internal/domain/entity"
)

// AccountAggregator fetches the native balance and token holdings of a wallet.
type AccountAggregator interface {
	FetchAssets(ctx context.Context, walletAddress string) (*entity.AccountAssets, error)
}

// PortfolioValuator values holdings in USD. It never fails; missing prices degrade the result.
type PortfolioValuator interface {
	Valuate(ctx context.Context, nativeBalanceBaseUnits uint64, holdings []entity.AssetHolding) entity.Valuation
}

// PortfolioService produces portfolio snapshots for wallet addresses.
type PortfolioService interface {
	FetchPortfolio(ctx context.Context, walletAddress string) (*entity.PortfolioSnapshot, error)
}
