package provider

import (
	"fmt"
	"sort"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
)

// KnownTokens are always present in the registry; file entries override them by mint.
var KnownTokens = []entity.TokenInfo{
	{Mint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Symbol: "USDC", Name: "USD Coin", Decimals: 6, CoinGeckoID: "usd-coin"},
	{Mint: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", Symbol: "USDT", Name: "Tether USD", Decimals: 6, CoinGeckoID: "tether"},
	{Mint: "So11111111111111111111111111111111111111112", Symbol: "SOL", Name: "Solana", Decimals: 9, CoinGeckoID: "solana"},
}

type tokenRegistryImpl struct {
	byMint map[string]entity.TokenInfo
	logger port.Logger
}

// NewTokenRegistry builds the registry from the built-in tokens and the entries
// returned by tp. tp may be nil.
func NewTokenRegistry(tp port.TokenProvider, logger port.Logger) (port.TokenRegistry, error) {
	r := &tokenRegistryImpl{
		byMint: make(map[string]entity.TokenInfo, len(KnownTokens)),
		logger: logger,
	}
	for _, t := range KnownTokens {
		r.byMint[t.Mint] = t
	}

	if tp != nil {
		logger.Debug("Loading token registry entries")
		tokens, err := tp.GetTokens()
		if err != nil {
			logger.Error("Failed to load tokens", "error", err)
			return nil, fmt.Errorf("failed to load token registry: %w", err)
		}
		for _, t := range tokens {
			r.byMint[t.Mint] = t
		}
	}

	logger.Info("Token registry ready", "count", len(r.byMint))
	return r, nil
}

// Lookup implements port.TokenRegistry.
func (r *tokenRegistryImpl) Lookup(mint string) (entity.TokenInfo, bool) {
	t, ok := r.byMint[mint]
	return t, ok
}

// Tokens implements port.TokenRegistry. Entries are ordered by symbol.
func (r *tokenRegistryImpl) Tokens() []entity.TokenInfo {
	out := make([]entity.TokenInfo, 0, len(r.byMint))
	for _, t := range r.byMint {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Mint < out[j].Mint
	})
	return out
}
