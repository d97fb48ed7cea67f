package networkdefinition

import (
	"fmt"
	"strings"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
)

// Token program ids. Holdings are merged in this order.
const (
	TokenProgramID     = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	Token2022ProgramID = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PeRm1nJ6jX1G5ru"

	DefaultCommitment = "confirmed"
)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger            port.Logger
	allNetworkDefs    map[string]entity.NetworkDefinition
	activeNetworkDefs []entity.NetworkDefinition
}

// Override replaces RPC settings of a predefined cluster.
type Override struct {
	Identifier      string
	RPCURL          string
	FallbackRPCURLs []string
	Commitment      string
}

// Predefined cluster definitions
var ( //nolint:gochecknoglobals // Global for definitions
	MainnetBeta = entity.NetworkDefinition{
		Identifier:       "mainnet-beta",
		Name:             "Solana Mainnet Beta",
		NativeSymbol:     "SOL",
		NativeDecimals:   9,
		PrimaryRPCURL:    "https://api.mainnet-beta.solana.com",
		FallbackRPCURLs:  []string{"https://solana-rpc.publicnode.com"},
		TokenProgramIDs:  []string{TokenProgramID, Token2022ProgramID},
		Commitment:       DefaultCommitment,
		BlockExplorerURL: "https://explorer.solana.com",
	}
	Devnet = entity.NetworkDefinition{
		Identifier:       "devnet",
		Name:             "Solana Devnet",
		NativeSymbol:     "SOL",
		NativeDecimals:   9,
		PrimaryRPCURL:    "https://api.devnet.solana.com",
		TokenProgramIDs:  []string{TokenProgramID, Token2022ProgramID},
		Commitment:       DefaultCommitment,
		BlockExplorerURL: "https://explorer.solana.com/?cluster=devnet",
	}
	Testnet = entity.NetworkDefinition{
		Identifier:       "testnet",
		Name:             "Solana Testnet",
		NativeSymbol:     "SOL",
		NativeDecimals:   9,
		PrimaryRPCURL:    "https://api.testnet.solana.com",
		TokenProgramIDs:  []string{TokenProgramID, Token2022ProgramID},
		Commitment:       DefaultCommitment,
		BlockExplorerURL: "https://explorer.solana.com/?cluster=testnet",
	}
)

var allKnownDefinitions = map[string]entity.NetworkDefinition{
	MainnetBeta.Identifier: MainnetBeta,
	Devnet.Identifier:      Devnet,
	Testnet.Identifier:     Testnet,
}

// NewNetworkDefinitionProvider activates the configured clusters, applying RPC overrides.
// An unknown identifier is skipped with a warning; with no valid overrides mainnet-beta is active.
func NewNetworkDefinitionProvider(log port.Logger, overrides ...Override) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:            log,
		allNetworkDefs:    allKnownDefinitions,
		activeNetworkDefs: make([]entity.NetworkDefinition, 0),
	}

	activeIdentifiers := make(map[string]struct{})
	for _, o := range overrides {
		identifier := strings.ToLower(strings.TrimSpace(o.Identifier))
		if identifier == "" {
			identifier = MainnetBeta.Identifier
		}
		if _, alreadyActive := activeIdentifiers[identifier]; alreadyActive {
			p.logger.Warn(fmt.Sprintf("Duplicate network override for '%s'. Skipping.", identifier))
			continue
		}

		def, ok := p.allNetworkDefs[identifier]
		if !ok {
			p.logger.Warn(fmt.Sprintf("Network '%s' is configured but no corresponding predefined cluster exists. Skipping.", identifier))
			continue
		}
		p.activeNetworkDefs = append(p.activeNetworkDefs, applyOverride(def, o))
		activeIdentifiers[identifier] = struct{}{}
	}

	if len(p.activeNetworkDefs) == 0 {
		p.activeNetworkDefs = append(p.activeNetworkDefs, MainnetBeta)
		p.logger.Info("No network configured, defaulting to mainnet-beta")
	}
	for _, netDef := range p.activeNetworkDefs {
		p.logger.Debug(fmt.Sprintf("Active network: %s (ID: %s, RPC: %s, commitment: %s)", netDef.Name, netDef.Identifier, netDef.PrimaryRPCURL, netDef.Commitment))
	}
	return p
}

func applyOverride(def entity.NetworkDefinition, o Override) entity.NetworkDefinition {
	if o.RPCURL != "" {
		def.PrimaryRPCURL = o.RPCURL
	}
	if len(o.FallbackRPCURLs) > 0 {
		def.FallbackRPCURLs = append([]string(nil), o.FallbackRPCURLs...)
	}
	if o.Commitment != "" {
		def.Commitment = o.Commitment
	}
	def.TokenProgramIDs = append([]string(nil), def.TokenProgramIDs...)
	return def
}

// GetAllNetworkDefinitions returns the active network definitions.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defsCopy := make([]entity.NetworkDefinition, len(p.activeNetworkDefs))
	copy(defsCopy, p.activeNetworkDefs)
	return defsCopy
}

// GetNetworkDefinitionByName finds an active definition by identifier or display name.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(nameOrIdentifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.activeNetworkDefs {
		if strings.EqualFold(def.Identifier, nameOrIdentifier) || strings.EqualFold(def.Name, nameOrIdentifier) {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// Default returns the first active network.
func (p *NetworkDefinitionProvider) Default() entity.NetworkDefinition {
	if p == nil || len(p.activeNetworkDefs) == 0 {
		return MainnetBeta
	}
	return p.activeNetworkDefs[0]
}
