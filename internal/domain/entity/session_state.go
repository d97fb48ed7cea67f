package entity

// SessionState is a point-in-time copy of the dashboard session.
type SessionState struct {
	Connected      bool               `json:"connected"`
	WalletAddress  string             `json:"walletAddress,omitempty"`
	Loading        bool               `json:"loading"`
	Error          string             `json:"error,omitempty"`
	Snapshot       *PortfolioSnapshot `json:"snapshot"`
	Generation     uint64             `json:"generation"`
	NativePriceUSD float64            `json:"nativePriceUSD"`
}

// EmptyPortfolioSnapshot is the snapshot shown when no wallet is connected.
func EmptyPortfolioSnapshot() *PortfolioSnapshot {
	return &PortfolioSnapshot{
		Holdings:          []AssetHolding{},
		HoldingValuations: []HoldingValuation{},
		ExcludedSymbols:   []string{},
	}
}
