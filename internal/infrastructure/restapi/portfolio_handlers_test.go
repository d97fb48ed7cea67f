package restapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_dashboard/internal/domain/entity"
)

func TestBuildDisplay_ExactAmountKeepsAllDecimals(t *testing.T) {
	s := sampleSnapshot()
	s.Holdings = []entity.AssetHolding{
		{Mint: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", RawAmount: "1234567890123", Decimals: 9, Symbol: "BONK"},
		{Mint: "bad", RawAmount: "12x", Decimals: 2, Symbol: "BAD"},
	}
	s.HoldingValuations = nil

	d := buildDisplay(s, 9)

	require.Len(t, d.Holdings, 2)
	assert.Equal(t, "1,234.56789", d.Holdings[0].Amount)
	assert.Equal(t, "1234.567890123", d.Holdings[0].ExactAmount)
	assert.Equal(t, "Price unavailable", d.Holdings[0].Value)

	assert.Equal(t, "12x", d.Holdings[1].Amount)
	assert.Equal(t, "12x", d.Holdings[1].ExactAmount)
}
