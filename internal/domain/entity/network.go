package entity

// NetworkDefinition holds the configuration for a Solana cluster.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	Identifier       string   `json:"identifier" yaml:"identifier"` // e.g. "mainnet-beta", "devnet"
	Name             string   `json:"name" yaml:"name"`
	NativeSymbol     string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	NativeDecimals   uint8    `json:"nativeDecimals" yaml:"nativeDecimals"` // lamports per SOL = 10^9
	PrimaryRPCURL    string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs  []string `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	TokenProgramIDs  []string `json:"tokenProgramIds" yaml:"tokenProgramIds"` // enumeration order is the merge order of holdings
	Commitment       string   `json:"commitment" yaml:"commitment"`
	BlockExplorerURL string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}
