package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/clock"
	"portfolio_dashboard/internal/pkg/metrics"
	"portfolio_dashboard/internal/pkg/utils"
)

const (
	DefaultPriceTTL          = 5 * time.Minute
	DefaultVSCurrency        = "usd"
	DefaultPriceFetchTimeout = 30 * time.Second
)

// DefaultSymbolMapping maps asset symbols to CoinGecko ids.
var DefaultSymbolMapping = map[string]string{
	"SOL":  "solana",
	"USDC": "usd-coin",
	"USDT": "tether",
	"BONK": "bonk",
}

// DefaultFallbackPrices are used only for stablecoins the price service could not price.
var DefaultFallbackPrices = map[string]float64{
	"USDC": 1.0,
	"USDT": 1.0,
}

// PriceResolverOptions configures the price resolver.
type PriceResolverOptions struct {
	TTL        time.Duration
	VSCurrency string
	// SymbolMapping extends and overrides DefaultSymbolMapping.
	SymbolMapping map[string]string
	// FallbackPrices replaces DefaultFallbackPrices when non-nil.
	FallbackPrices map[string]float64
	// FetchTimeout bounds a shared price service request.
	FetchTimeout time.Duration
}

// priceResolverImpl implements port.PriceResolver
type priceResolverImpl struct {
	client     port.PriceServiceClient
	logger     port.Logger
	clock      clock.Clock
	ttl        time.Duration
	vsCurrency string
	symbolToID map[string]string
	fallback   map[string]float64

	fetchTimeout time.Duration

	cache    *gocache.Cache
	inflight singleflight.Group
}

// NewPriceResolver creates a new price resolver. Registry entries carrying a CoinGecko id
// extend the symbol mapping; explicit SymbolMapping entries take precedence over them.
func NewPriceResolver(
	client port.PriceServiceClient,
	registry port.TokenRegistry,
	clk clock.Clock,
	l port.Logger,
	opts PriceResolverOptions,
) port.PriceResolver {
	if clk == nil {
		clk = clock.Real()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	vs := opts.VSCurrency
	if vs == "" {
		vs = DefaultVSCurrency
	}

	symbolToID := make(map[string]string, len(DefaultSymbolMapping))
	for sym, id := range DefaultSymbolMapping {
		symbolToID[sym] = id
	}
	if registry != nil {
		for _, t := range registry.Tokens() {
			if t.Symbol != "" && t.CoinGeckoID != "" {
				symbolToID[t.Symbol] = t.CoinGeckoID
			}
		}
	}
	for sym, id := range opts.SymbolMapping {
		if sym != "" && id != "" {
			symbolToID[sym] = id
		}
	}

	fallback := opts.FallbackPrices
	if fallback == nil {
		fallback = DefaultFallbackPrices
	}
	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultPriceFetchTimeout
	}

	r := &priceResolverImpl{
		client:     client,
		logger:     l,
		clock:      clk,
		ttl:        ttl,
		vsCurrency: vs,
		symbolToID: symbolToID,
		fallback:   fallback,
		cache:      gocache.New(gocache.NoExpiration, 0),

		fetchTimeout: fetchTimeout,
	}
	l.Info("PriceResolver initialized", "ttl", ttl.String(), "mappedSymbols", len(symbolToID))
	return r
}

// ResolvePrices implements port.PriceResolver.
func (r *priceResolverImpl) ResolvePrices(ctx context.Context, symbols []string) (map[string]float64, error) {
	symbols = utils.UniqueNonEmpty(symbols)
	result := make(map[string]float64, len(symbols))
	if len(symbols) == 0 {
		return result, nil
	}

	now := r.clock.Now()
	var toFetch []string
	for _, sym := range symbols {
		if quote, ok := r.cachedQuote(sym); ok && quote.IsFresh(now, r.ttl) {
			metrics.PriceCacheLookups.WithLabelValues("hit").Inc()
			result[sym] = quote.USDPrice
			continue
		}
		metrics.PriceCacheLookups.WithLabelValues("miss").Inc()
		toFetch = append(toFetch, sym)
	}
	if len(toFetch) == 0 {
		metrics.PriceResolutions.WithLabelValues("ok").Inc()
		return result, nil
	}

	symbolsByID := make(map[string][]string)
	var fallbackOnly, unresolvable []string
	for _, sym := range toFetch {
		if id, ok := r.symbolToID[sym]; ok {
			symbolsByID[id] = append(symbolsByID[id], sym)
			continue
		}
		if _, ok := r.fallback[sym]; ok {
			fallbackOnly = append(fallbackOnly, sym)
			continue
		}
		unresolvable = append(unresolvable, sym)
	}
	if len(unresolvable) > 0 {
		metrics.PriceResolutions.WithLabelValues("unresolvable").Inc()
		r.logger.Warn("No price mapping for symbols", "symbols", unresolvable)
		return nil, &entity.UnresolvableSymbolsError{Symbols: unresolvable}
	}

	for _, sym := range fallbackOnly {
		result[sym] = r.fallback[sym]
	}
	if len(symbolsByID) == 0 {
		metrics.PriceResolutions.WithLabelValues("ok").Inc()
		return result, nil
	}

	ids := make([]string, 0, len(symbolsByID))
	for id := range symbolsByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := r.fetch(ctx, ids)
	if err != nil {
		metrics.PriceResolutions.WithLabelValues("service_error").Inc()
		r.logger.Error("Price service request failed", "ids", ids, "error", err)
		return nil, &entity.PriceServiceError{Err: err}
	}

	fetchedAt := r.clock.Now()
	for _, id := range ids {
		price, priced := data[id][r.vsCurrency]
		for _, sym := range symbolsByID[id] {
			if priced && price > 0 {
				result[sym] = price
				r.cache.Set(sym, entity.NewPriceQuote(sym, price, fetchedAt), gocache.NoExpiration)
				continue
			}
			if fb, ok := r.fallback[sym]; ok {
				r.logger.Debug("Price service returned no price, using fallback", "symbol", sym, "price", fb)
				result[sym] = fb
				continue
			}
			unresolvable = append(unresolvable, sym)
		}
	}
	if len(unresolvable) > 0 {
		metrics.PriceResolutions.WithLabelValues("unresolvable").Inc()
		r.logger.Warn("Price service returned no price for symbols", "symbols", unresolvable)
		return nil, &entity.UnresolvableSymbolsError{Symbols: unresolvable}
	}

	metrics.PriceResolutions.WithLabelValues("ok").Inc()
	return result, nil
}

// ResolvePrice implements port.PriceResolver.
func (r *priceResolverImpl) ResolvePrice(ctx context.Context, symbol string) (float64, error) {
	if symbol == "" {
		return 0, &entity.UnresolvableSymbolsError{Symbols: []string{symbol}}
	}
	prices, err := r.ResolvePrices(ctx, []string{symbol})
	if err != nil {
		return 0, err
	}
	return prices[symbol], nil
}

// ClearCache implements port.PriceResolver.
func (r *priceResolverImpl) ClearCache() {
	r.cache.Flush()
	r.logger.Info("Price cache cleared")
}

func (r *priceResolverImpl) cachedQuote(symbol string) (entity.PriceQuote, bool) {
	v, ok := r.cache.Get(symbol)
	if !ok {
		return entity.PriceQuote{}, false
	}
	quote, ok := v.(entity.PriceQuote)
	return quote, ok
}

// fetch deduplicates concurrent requests for the same id set. The shared request
// outlives any single caller; each caller stops waiting when its own ctx is done.
// The shared result must not be mutated by callers.
func (r *priceResolverImpl) fetch(ctx context.Context, ids []string) (map[string]map[string]float64, error) {
	key := strings.Join(ids, ",")
	ch := r.inflight.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.fetchTimeout)
		defer cancel()
		return r.client.GetSimplePrices(fetchCtx, ids, r.vsCurrency)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Shared {
		r.logger.Debug("Joined in-flight price request", "ids", key)
	}
	if res.Err != nil {
		return nil, res.Err
	}
	data, ok := res.Val.(map[string]map[string]float64)
	if !ok {
		return nil, errors.New("unexpected price service result type")
	}
	return data, nil
}
