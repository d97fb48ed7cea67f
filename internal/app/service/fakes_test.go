package service

import (
	"context"
	"sync"
	"time"

	"portfolio_dashboard/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakePriceClient struct {
	mu     sync.Mutex
	prices map[string]float64
	err    error
	calls  [][]string
}

func (c *fakePriceClient) GetSimplePrices(_ context.Context, ids []string, vsCurrency string) (map[string]map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, append([]string(nil), ids...))
	if c.err != nil {
		return nil, c.err
	}
	out := make(map[string]map[string]float64)
	for _, id := range ids {
		if p, ok := c.prices[id]; ok {
			out[id] = map[string]float64{vsCurrency: p}
		}
	}
	return out, nil
}

func (c *fakePriceClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

type staticRegistry []entity.TokenInfo

func (r staticRegistry) Lookup(mint string) (entity.TokenInfo, bool) {
	for _, t := range r {
		if t.Mint == mint {
			return t, true
		}
	}
	return entity.TokenInfo{}, false
}

func (r staticRegistry) Tokens() []entity.TokenInfo { return r }

// fakeResolver is a scripted port.PriceResolver.
type fakeResolver struct {
	mu        sync.Mutex
	prices    map[string]float64
	batchErr  error
	singleErr error
	batches   [][]string
}

func (f *fakeResolver) ResolvePrices(_ context.Context, symbols []string) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]string(nil), symbols...))
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make(map[string]float64, len(symbols))
	for _, s := range symbols {
		p, ok := f.prices[s]
		if !ok {
			return nil, &entity.UnresolvableSymbolsError{Symbols: []string{s}}
		}
		out[s] = p
	}
	return out, nil
}

func (f *fakeResolver) ResolvePrice(_ context.Context, symbol string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.singleErr != nil {
		return 0, f.singleErr
	}
	p, ok := f.prices[symbol]
	if !ok {
		return 0, &entity.UnresolvableSymbolsError{Symbols: []string{symbol}}
	}
	return p, nil
}

func (f *fakeResolver) ClearCache() {}
