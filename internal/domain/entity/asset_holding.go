package entity

// AssetHolding is one token account normalized for valuation.
type AssetHolding struct {
	Mint      string `json:"mint"`
	RawAmount string `json:"rawAmount"` // base units, arbitrary precision
	Decimals  uint8  `json:"decimals"`
	Symbol    string `json:"symbol,omitempty"`
	Name      string `json:"name,omitempty"`
	ProgramID string `json:"programId"`
	Account   string `json:"account"`
}

// AccountAssets is the Account Aggregator output for one wallet.
type AccountAssets struct {
	WalletAddress          string         `json:"walletAddress"`
	NativeBalanceBaseUnits uint64         `json:"nativeBalanceBaseUnits"`
	Holdings               []AssetHolding `json:"holdings"`
}

// Wallet is a wallet address known to the dashboard.
type Wallet struct {
	Address string `json:"address"`
}
