package port

import (
	"context"

	"portfolio_dashboard/internal/domain/entity"
)

// TokenRegistry resolves display metadata for mints.
type TokenRegistry interface {
	// Lookup returns the registry entry for mint, if known.
	Lookup(mint string) (entity.TokenInfo, bool)
	// Tokens returns every registry entry.
	Tokens() []entity.TokenInfo
}

// TokenProvider loads additional token registry entries from an external source.
type TokenProvider interface {
	GetTokens() ([]entity.TokenInfo, error)
}

// PriceServiceClient is the external USD price source.
type PriceServiceClient interface {
	// GetSimplePrices returns {id: {currency: price}} for the requested provider-specific ids.
	GetSimplePrices(ctx context.Context, ids []string, vsCurrency string) (map[string]map[string]float64, error)
}

// PriceResolver resolves USD prices for asset symbols.
type PriceResolver interface {
	// ResolvePrices returns a price for every requested symbol or fails the whole batch
	// with *entity.UnresolvableSymbolsError or *entity.PriceServiceError.
	ResolvePrices(ctx context.Context, symbols []string) (map[string]float64, error)
	// ResolvePrice resolves a single symbol.
	ResolvePrice(ctx context.Context, symbol string) (float64, error)
	// ClearCache drops every cached quote.
	ClearCache()
}
