package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
)

const (
	defaultProviderConnectionTimeout = 10 * time.Second
)

// solanaClientProvider implements the port.RPCClientProvider interface.
type solanaClientProvider struct {
	clients           map[string]*SolanaClient
	mu                sync.Mutex
	httpClient        *http.Client
	loggerInfo        func(msg string, args ...any)
	loggerError       func(msg string, args ...any)
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
}

// NewSolanaClientProvider creates a new RPC client provider.
func NewSolanaClientProvider(
	rpcCallTimeout time.Duration,
	httpClient *http.Client,
	loggerInfo func(msg string, args ...any),
	loggerError func(msg string, args ...any),
) port.RPCClientProvider {
	return &solanaClientProvider{
		clients:           make(map[string]*SolanaClient),
		httpClient:        httpClient,
		loggerInfo:        loggerInfo,
		loggerError:       loggerError,
		connectionTimeout: defaultProviderConnectionTimeout,
		rpcCallTimeout:    rpcCallTimeout,
	}
}

// GetClient retrieves a client for the given network definition.
// It caches clients to avoid reconnecting repeatedly; a failed dial is not cached.
func (p *solanaClientProvider) GetClient(ctx context.Context, netDef entity.NetworkDefinition) (port.SolanaRPCClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	clientKey := netDef.Identifier + "|" + netDef.PrimaryRPCURL
	if c, exists := p.clients[clientKey]; exists {
		return c, nil
	}

	p.loggerInfo("Creating new Solana RPC client", "network", netDef.Identifier, "rpc_primary", netDef.PrimaryRPCURL)
	newClient, err := NewSolanaClient(ctx, netDef, p.httpClient, p.connectionTimeout, p.rpcCallTimeout)
	if err != nil {
		p.loggerError("Failed to create Solana RPC client", "network", netDef.Identifier, "error", err)
		return nil, &entity.RPCError{Method: "dial", Err: fmt.Errorf("failed to create RPC client for %s: %w", netDef.Name, err)}
	}

	p.clients[clientKey] = newClient
	p.loggerInfo("Successfully created and cached Solana RPC client", "network", netDef.Identifier, "rpc_url", newClient.URL())
	return newClient, nil
}
