package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_dashboard/internal/domain/entity"
)

func newTestResolver(client *fakePriceClient, clk *fakeClock) *priceResolverImpl {
	return NewPriceResolver(client, nil, clk, nopLogger{}, PriceResolverOptions{}).(*priceResolverImpl)
}

func TestResolvePrices_CachedWithinTTL(t *testing.T) {
	client := &fakePriceClient{prices: map[string]float64{"solana": 150}}
	clk := newFakeClock()
	r := newTestResolver(client, clk)

	first, err := r.ResolvePrices(context.Background(), []string{"SOL"})
	require.NoError(t, err)
	assert.Equal(t, 150.0, first["SOL"])

	client.prices["solana"] = 999
	clk.Advance(DefaultPriceTTL - time.Millisecond)

	second, err := r.ResolvePrices(context.Background(), []string{"SOL"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.callCount())
}

func TestResolvePrices_RefetchesAfterTTL(t *testing.T) {
	client := &fakePriceClient{prices: map[string]float64{"solana": 150}}
	clk := newFakeClock()
	r := newTestResolver(client, clk)

	_, err := r.ResolvePrices(context.Background(), []string{"SOL"})
	require.NoError(t, err)

	client.prices["solana"] = 160
	clk.Advance(DefaultPriceTTL + time.Millisecond)

	prices, err := r.ResolvePrices(context.Background(), []string{"SOL"})
	require.NoError(t, err)
	assert.Equal(t, 160.0, prices["SOL"])
	assert.Equal(t, 2, client.callCount())
}

func TestResolvePrices_ExpiresExactlyAtTTL(t *testing.T) {
	client := &fakePriceClient{prices: map[string]float64{"solana": 150}}
	clk := newFakeClock()
	r := newTestResolver(client, clk)

	_, err := r.ResolvePrices(context.Background(), []string{"SOL"})
	require.NoError(t, err)
	clk.Advance(DefaultPriceTTL)

	_, err = r.ResolvePrices(context.Background(), []string{"SOL"})
	require.NoError(t, err)
	assert.Equal(t, 2, client.callCount())
}

func TestResolvePrices_UnmappedSymbolFailsWithoutNetwork(t *testing.T) {
	client := &fakePriceClient{prices: map[string]float64{"solana": 150}}
	r := newTestResolver(client, newFakeClock())

	_, err := r.ResolvePrices(context.Background(), []string{"SOL", "UNKNOWN_SYM"})
	require.Error(t, err)

	var unresolvable *entity.UnresolvableSymbolsError
	require.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, []string{"UNKNOWN_SYM"}, unresolvable.Symbols)
	assert.Contains(t, err.Error(), "UNKNOWN_SYM")
	assert.Equal(t, 0, client.callCount())
}

func TestResolvePrices_ServiceFailureFailsBatch(t *testing.T) {
	client := &fakePriceClient{err: errors.New("HTTP error! status: 500")}
	r := newTestResolver(client, newFakeClock())

	prices, err := r.ResolvePrices(context.Background(), []string{"SOL", "USDC"})
	assert.Nil(t, prices)

	var serviceErr *entity.PriceServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Contains(t, err.Error(), "status: 500")
}

func TestResolvePrices_StablecoinFallbackWhenMissingFromResponse(t *testing.T) {
	client := &fakePriceClient{prices: map[string]float64{"solana": 150}}
	r := newTestResolver(client, newFakeClock())

	prices, err := r.ResolvePrices(context.Background(), []string{"SOL", "USDC", "USDT"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"SOL": 150, "USDC": 1, "USDT": 1}, prices)

	// fallback prices are not cached, so USDC is requested again
	_, err = r.ResolvePrices(context.Background(), []string{"USDC"})
	require.NoError(t, err)
	require.Equal(t, 2, client.callCount())
	assert.Equal(t, []string{"usd-coin"}, client.calls[1])
}

func TestResolvePrices_MappedSymbolMissingWithoutFallback(t *testing.T) {
	client := &fakePriceClient{prices: map[string]float64{"solana": 150}}
	r := newTestResolver(client, newFakeClock())

	_, err := r.ResolvePrices(context.Background(), []string{"SOL", "BONK"})
	var unresolvable *entity.UnresolvableSymbolsError
	require.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, []string{"BONK"}, unresolvable.Symbols)
}

func TestResolvePrices_DeduplicatesAndDropsEmpty(t *testing.T) {
	client := &fakePriceClient{prices: map[string]float64{"solana": 150, "bonk": 0.00002}}
	r := newTestResolver(client, newFakeClock())

	prices, err := r.ResolvePrices(context.Background(), []string{"SOL", "", "SOL", "BONK"})
	require.NoError(t, err)
	assert.Len(t, prices, 2)
	require.Equal(t, 1, client.callCount())
	assert.Equal(t, []string{"bonk", "solana"}, client.calls[0])
}

func TestResolvePrices_EmptyInput(t *testing.T) {
	client := &fakePriceClient{}
	r := newTestResolver(client, newFakeClock())

	prices, err := r.ResolvePrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, prices)
	assert.Equal(t, 0, client.callCount())
}

func TestResolvePrices_RegistryAndConfigMapping(t *testing.T) {
	client := &fakePriceClient{prices: map[string]float64{"jupiter-exchange-solana": 0.9, "custom-sol": 42}}
	registry := staticRegistry{{Mint: "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", Symbol: "JUP", CoinGeckoID: "jupiter-exchange-solana"}}
	r := NewPriceResolver(client, registry, newFakeClock(), nopLogger{}, PriceResolverOptions{
		SymbolMapping: map[string]string{"SOL": "custom-sol"},
	})

	prices, err := r.ResolvePrices(context.Background(), []string{"JUP", "SOL"})
	require.NoError(t, err)
	assert.Equal(t, 0.9, prices["JUP"])
	assert.Equal(t, 42.0, prices["SOL"])
}

func TestResolvePrice_SingleSymbolAndClearCache(t *testing.T) {
	client := &fakePriceClient{prices: map[string]float64{"solana": 150}}
	r := newTestResolver(client, newFakeClock())

	price, err := r.ResolvePrice(context.Background(), "SOL")
	require.NoError(t, err)
	assert.Equal(t, 150.0, price)

	r.ClearCache()
	_, err = r.ResolvePrice(context.Background(), "SOL")
	require.NoError(t, err)
	assert.Equal(t, 2, client.callCount())

	_, err = r.ResolvePrice(context.Background(), "")
	assert.Error(t, err)
}

type blockingPriceClient struct {
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (c *blockingPriceClient) GetSimplePrices(_ context.Context, ids []string, vs string) (map[string]map[string]float64, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	<-c.release
	return map[string]map[string]float64{"solana": {vs: 150}}, nil
}

func TestResolvePrices_ConcurrentCallsShareFetch(t *testing.T) {
	client := &blockingPriceClient{release: make(chan struct{})}
	r := NewPriceResolver(client, nil, newFakeClock(), nopLogger{}, PriceResolverOptions{})

	const callers = 5
	var wg sync.WaitGroup
	results := make([]map[string]float64, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := r.ResolvePrices(context.Background(), []string{"SOL"})
			assert.NoError(t, err)
			results[i] = p
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(client.release)
	wg.Wait()

	for _, p := range results {
		assert.Equal(t, 150.0, p["SOL"])
	}
	client.mu.Lock()
	defer client.mu.Unlock()
	assert.LessOrEqual(t, client.calls, callers)
	assert.GreaterOrEqual(t, client.calls, 1)
}

// gatedPriceClient blocks until release and honours the request context.
type gatedPriceClient struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	mu      sync.Mutex
	calls   int
}

func (c *gatedPriceClient) GetSimplePrices(ctx context.Context, ids []string, vs string) (map[string]map[string]float64, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	c.once.Do(func() { close(c.started) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.release:
	}
	return map[string]map[string]float64{"solana": {vs: 150}}, nil
}

func TestResolvePrices_CancelledCallerDoesNotFailJoinedCaller(t *testing.T) {
	client := &gatedPriceClient{started: make(chan struct{}), release: make(chan struct{})}
	r := NewPriceResolver(client, nil, newFakeClock(), nopLogger{}, PriceResolverOptions{})

	ctxFirst, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := r.ResolvePrices(ctxFirst, []string{"SOL"})
		firstErr <- err
	}()
	<-client.started

	type outcome struct {
		prices map[string]float64
		err    error
	}
	second := make(chan outcome, 1)
	go func() {
		p, err := r.ResolvePrices(context.Background(), []string{"SOL"})
		second <- outcome{p, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(client.release)
	select {
	case got := <-second:
		require.NoError(t, got.err)
		assert.Equal(t, 150.0, got.prices["SOL"])
	case <-time.After(time.Second):
		t.Fatal("joined caller did not return")
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, 1, client.calls)
}

func TestResolvePrices_SharedFetchBoundedByTimeout(t *testing.T) {
	client := &gatedPriceClient{started: make(chan struct{}), release: make(chan struct{})}
	defer close(client.release)
	r := NewPriceResolver(client, nil, newFakeClock(), nopLogger{}, PriceResolverOptions{FetchTimeout: 20 * time.Millisecond})

	_, err := r.ResolvePrices(context.Background(), []string{"SOL"})
	var svcErr *entity.PriceServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
