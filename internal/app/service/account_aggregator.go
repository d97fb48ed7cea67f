package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/utils"
)

// accountAggregatorImpl implements port.AccountAggregator
type accountAggregatorImpl struct {
	clientProvider port.RPCClientProvider
	network        entity.NetworkDefinition
	registry       port.TokenRegistry
	logger         port.Logger
}

// NewAccountAggregator creates an aggregator bound to a single network.
func NewAccountAggregator(
	cp port.RPCClientProvider,
	network entity.NetworkDefinition,
	registry port.TokenRegistry,
	l port.Logger,
) port.AccountAggregator {
	return &accountAggregatorImpl{
		clientProvider: cp,
		network:        network,
		registry:       registry,
		logger:         l,
	}
}

// FetchAssets implements port.AccountAggregator. The native balance and every token
// program are queried concurrently; a failed token program yields no holdings for that
// program, a failed native balance fails the whole call.
func (a *accountAggregatorImpl) FetchAssets(ctx context.Context, walletAddress string) (*entity.AccountAssets, error) {
	client, err := a.clientProvider.GetClient(ctx, a.network)
	if err != nil {
		return nil, fmt.Errorf("failed to get RPC client for %s: %w", a.network.Name, err)
	}

	programs := a.network.TokenProgramIDs
	perProgram := make([][]entity.TokenAccount, len(programs))
	var nativeBalance uint64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		balance, err := client.GetBalance(gctx, walletAddress)
		if err != nil {
			return err
		}
		nativeBalance = balance
		return nil
	})
	for i, programID := range programs {
		i, programID := i, programID
		g.Go(func() error {
			accounts, err := client.GetTokenAccountsByOwner(gctx, walletAddress, programID)
			if err != nil {
				a.logger.Warn("Failed to fetch token accounts, continuing without them",
					"wallet_address", walletAddress, "program_id", programID, "error", err)
				return nil
			}
			perProgram[i] = accounts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.logger.Error("Failed to fetch native balance", "wallet_address", walletAddress, "error", err)
		return nil, fmt.Errorf("failed to fetch native balance for %s: %w", walletAddress, err)
	}

	holdings := make([]entity.AssetHolding, 0)
	var dropped int
	for _, accounts := range perProgram {
		for _, acc := range accounts {
			holding, ok := a.toHolding(acc)
			if !ok {
				dropped++
				continue
			}
			holdings = append(holdings, holding)
		}
	}
	if dropped > 0 {
		a.logger.Debug("Dropped token accounts without parsed data", "wallet_address", walletAddress, "count", dropped)
	}

	a.logger.Debug("Fetched wallet assets", "wallet_address", walletAddress,
		"native_balance", nativeBalance, "holdings", len(holdings))
	return &entity.AccountAssets{
		WalletAddress:          walletAddress,
		NativeBalanceBaseUnits: nativeBalance,
		Holdings:               holdings,
	}, nil
}

func (a *accountAggregatorImpl) toHolding(acc entity.TokenAccount) (entity.AssetHolding, bool) {
	p := acc.Parsed
	if p == nil || p.Mint == "" || !utils.IsBaseUnitAmount(p.Amount) {
		return entity.AssetHolding{}, false
	}

	symbol, name := SynthesizedSymbol(p.Mint), SynthesizedName(p.Mint)
	if a.registry != nil {
		if info, ok := a.registry.Lookup(p.Mint); ok {
			if info.Symbol != "" {
				symbol = info.Symbol
			}
			if info.Name != "" {
				name = info.Name
			}
		}
	}

	return entity.AssetHolding{
		Mint:      p.Mint,
		RawAmount: p.Amount,
		Decimals:  p.Decimals,
		Symbol:    symbol,
		Name:      name,
		ProgramID: acc.ProgramID,
		Account:   acc.Pubkey,
	}, true
}

func mintPrefix(mint string) string {
	if len(mint) > 8 {
		return mint[:8]
	}
	return mint
}

// SynthesizedSymbol is the placeholder symbol for mints missing from the registry.
func SynthesizedSymbol(mint string) string { return "T" + mintPrefix(mint) }

// SynthesizedName is the placeholder display name for mints missing from the registry.
func SynthesizedName(mint string) string { return "Token " + mintPrefix(mint) + "..." }
