package entity

import "time"

// PriceQuote is a cached USD price. Quotes are replaced wholesale on refresh.
type PriceQuote struct {
	Symbol           string  `json:"symbol"`
	USDPrice         float64 `json:"usdPrice"`
	FetchedAtEpochMs int64   `json:"fetchedAtEpochMs"`
}

// NewPriceQuote stamps a quote with the given fetch time.
func NewPriceQuote(symbol string, usdPrice float64, fetchedAt time.Time) PriceQuote {
	return PriceQuote{Symbol: symbol, USDPrice: usdPrice, FetchedAtEpochMs: fetchedAt.UnixMilli()}
}

// IsFresh reports whether the quote is younger than ttl at now.
func (q PriceQuote) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-q.FetchedAtEpochMs < ttl.Milliseconds()
}
