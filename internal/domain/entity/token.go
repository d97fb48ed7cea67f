package entity

// TokenInfo is a token registry entry keyed by mint.
type TokenInfo struct {
	Mint        string `json:"mint" yaml:"mint"`
	Symbol      string `json:"symbol" yaml:"symbol"`
	Name        string `json:"name" yaml:"name"`
	Decimals    uint8  `json:"decimals" yaml:"decimals"`
	CoinGeckoID string `json:"coinGeckoId,omitempty" yaml:"coinGeckoId,omitempty"`
}

// TokenAccount is a token account returned by getTokenAccountsByOwner.
// Parsed is nil when the node did not return jsonParsed data for the account
// or the parsed payload was malformed.
type TokenAccount struct {
	Pubkey    string
	ProgramID string
	Parsed    *ParsedTokenAccount
}

// ParsedTokenAccount holds the fields of the parsed "info" object we consume.
type ParsedTokenAccount struct {
	Mint           string
	Owner          string
	Amount         string // base units, non-negative integer
	Decimals       uint8
	UIAmountString string
}
