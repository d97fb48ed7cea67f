package entity

import "time"

// HoldingValuation is the USD valuation of a single holding.
type HoldingValuation struct {
	Mint     string  `json:"mint"`
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	PriceUSD float64 `json:"priceUSD"`
	ValueUSD float64 `json:"valueUSD"`
	Priced   bool    `json:"priced"`
}

// Valuation is the Portfolio Valuator output.
// PricesAvailable is false when the native price could not be resolved; in that
// case every USD figure is zero and means "unknown", not "worthless".
type Valuation struct {
	NativeQuantity  float64            `json:"nativeQuantity"`
	NativePriceUSD  float64            `json:"nativePriceUSD"`
	NativeValueUSD  float64            `json:"nativeValueUSD"`
	TokenValueUSD   float64            `json:"tokenValueUSD"`
	TotalValueUSD   float64            `json:"totalValueUSD"`
	PricesAvailable bool               `json:"pricesAvailable"`
	Holdings        []HoldingValuation `json:"holdings"`
	ExcludedSymbols []string           `json:"excludedSymbols"`
}

// PortfolioSnapshot is the immutable result of one portfolio fetch.
type PortfolioSnapshot struct {
	WalletAddress          string             `json:"walletAddress"`
	NetworkIdentifier      string             `json:"network"`
	NativeSymbol           string             `json:"nativeSymbol"`
	NativeBalanceBaseUnits uint64             `json:"nativeBalanceBaseUnits"`
	NativeQuantity         float64            `json:"nativeQuantity"`
	NativePriceUSD         float64            `json:"nativePriceUSD"`
	Holdings               []AssetHolding     `json:"holdings"`
	HoldingValuations      []HoldingValuation `json:"holdingValuations"`
	TotalValueUSD          float64            `json:"totalValueUSD"`
	PricesAvailable        bool               `json:"pricesAvailable"`
	ExcludedSymbols        []string           `json:"excludedSymbols"`
	FetchedAt              time.Time          `json:"fetchedAt"`
}
