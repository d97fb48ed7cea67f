package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_dashboard/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type stubTokenProvider struct {
	tokens []entity.TokenInfo
	err    error
}

func (s stubTokenProvider) GetTokens() ([]entity.TokenInfo, error) { return s.tokens, s.err }

func TestTokenRegistry_BuiltInsAndOverrides(t *testing.T) {
	bonk := entity.TokenInfo{Mint: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", Symbol: "BONK", Name: "Bonk", Decimals: 5}
	renamedUSDC := entity.TokenInfo{Mint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Symbol: "USDC", Name: "Circle USD", Decimals: 6}

	r, err := NewTokenRegistry(stubTokenProvider{tokens: []entity.TokenInfo{bonk, renamedUSDC}}, nopLogger{})
	require.NoError(t, err)

	got, ok := r.Lookup(bonk.Mint)
	require.True(t, ok)
	assert.Equal(t, bonk, got)

	usdc, ok := r.Lookup(renamedUSDC.Mint)
	require.True(t, ok)
	assert.Equal(t, "Circle USD", usdc.Name)

	usdt, ok := r.Lookup("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
	require.True(t, ok)
	assert.Equal(t, "Tether USD", usdt.Name)

	_, ok = r.Lookup("unknown")
	assert.False(t, ok)

	symbols := make([]string, 0)
	for _, tok := range r.Tokens() {
		symbols = append(symbols, tok.Symbol)
	}
	assert.Equal(t, []string{"BONK", "SOL", "USDC", "USDT"}, symbols)
}

func TestTokenRegistry_NilProvider(t *testing.T) {
	r, err := NewTokenRegistry(nil, nopLogger{})
	require.NoError(t, err)
	assert.Len(t, r.Tokens(), len(KnownTokens))
}

func TestTokenRegistry_ProviderError(t *testing.T) {
	_, err := NewTokenRegistry(stubTokenProvider{err: errors.New("bad file")}, nopLogger{})
	assert.ErrorContains(t, err, "bad file")
}
