package port

import (
	"context"

	"portfolio_dashboard/internal/domain/entity"
)

// SolanaRPCClient defines the subset of the Solana JSON-RPC API the aggregator consumes.
type SolanaRPCClient interface {
	// GetBalance returns the native balance of address in base units (lamports).
	GetBalance(ctx context.Context, address string) (uint64, error)

	// GetTokenAccountsByOwner lists token accounts owned by owner under the given token program.
	GetTokenAccountsByOwner(ctx context.Context, owner string, programID string) ([]entity.TokenAccount, error)

	// Definition returns the network definition associated with this client.
	Definition() entity.NetworkDefinition
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all available network definitions as a slice.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns a specific network definition by its identifier or name.
	GetNetworkDefinitionByName(nameOrIdentifier string) (entity.NetworkDefinition, bool)
}

// RPCClientProvider hands out connected RPC clients per network.
type RPCClientProvider interface {
	GetClient(ctx context.Context, networkDefinition entity.NetworkDefinition) (SolanaRPCClient, error)
}
