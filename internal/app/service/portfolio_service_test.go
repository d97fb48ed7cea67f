package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_dashboard/internal/domain/entity"
)

func newTestPortfolioService(client *fakeRPCClient, resolver *fakeResolver, clk *fakeClock) *PortfolioServiceImpl {
	agg := newTestAggregator(client)
	val := NewPortfolioValuator(resolver, testNetwork, nopLogger{})
	return NewPortfolioService(agg, val, testNetwork, clk, nopLogger{}).(*PortfolioServiceImpl)
}

func TestFetchPortfolio_Snapshot(t *testing.T) {
	client := &fakeRPCClient{
		balance: 2_500_000_000,
		accounts: map[string][]entity.TokenAccount{
			legacyProgram: {parsedAccount("acc1", legacyProgram, usdcMint, "1000000", 6)},
		},
	}
	resolver := &fakeResolver{prices: map[string]float64{"SOL": 100, "USDC": 1}}
	clk := newFakeClock()

	snap, err := newTestPortfolioService(client, resolver, clk).FetchPortfolio(context.Background(), testWallet)
	require.NoError(t, err)

	assert.Equal(t, testWallet, snap.WalletAddress)
	assert.Equal(t, "mainnet-beta", snap.NetworkIdentifier)
	assert.Equal(t, "SOL", snap.NativeSymbol)
	assert.EqualValues(t, 2_500_000_000, snap.NativeBalanceBaseUnits)
	assert.Equal(t, 2.5, snap.NativeQuantity)
	assert.InDelta(t, 251.0, snap.TotalValueUSD, 1e-9)
	assert.True(t, snap.PricesAvailable)
	assert.Len(t, snap.Holdings, 1)
	assert.Len(t, snap.HoldingValuations, 1)
	assert.Equal(t, clk.Now(), snap.FetchedAt)
}

func TestFetchPortfolio_DegradedPricing(t *testing.T) {
	client := &fakeRPCClient{balance: 2_500_000_000}
	failure := &entity.PriceServiceError{Err: errors.New("down")}
	resolver := &fakeResolver{batchErr: failure, singleErr: failure}

	snap, err := newTestPortfolioService(client, resolver, newFakeClock()).FetchPortfolio(context.Background(), testWallet)
	require.NoError(t, err)
	assert.False(t, snap.PricesAvailable)
	assert.Zero(t, snap.TotalValueUSD)
	assert.Equal(t, 2.5, snap.NativeQuantity)
}

func TestFetchPortfolio_InvalidAddress(t *testing.T) {
	client := &fakeRPCClient{}
	svc := newTestPortfolioService(client, &fakeResolver{}, newFakeClock())

	_, err := svc.FetchPortfolio(context.Background(), "not-a-wallet")
	var invalid *entity.InvalidAddressError
	require.ErrorAs(t, err, &invalid)
}

func TestFetchPortfolio_AggregationFailure(t *testing.T) {
	client := &fakeRPCClient{balanceErr: &entity.RPCError{Method: "getBalance", Err: errors.New("timeout")}}
	svc := newTestPortfolioService(client, &fakeResolver{}, newFakeClock())

	snap, err := svc.FetchPortfolio(context.Background(), testWallet)
	assert.Nil(t, snap)
	var rpcErr *entity.RPCError
	require.ErrorAs(t, err, &rpcErr)
}
