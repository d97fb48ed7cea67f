package tokenloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGetTokens_ValidFile(t *testing.T) {
	path := writeFile(t, `[
		{"mint": "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", "symbol": "BONK", "name": "Bonk", "decimals": 5, "coinGeckoId": "bonk"},
		{"mint": "not-a-mint", "symbol": "BAD", "decimals": 6},
		{"mint": "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", "symbol": "", "decimals": 6}
	]`)

	var warnings int
	l := NewTokenLoader(path, nil, func(string, ...any) { warnings++ })
	tokens, err := l.GetTokens()
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "BONK", tokens[0].Symbol)
	assert.Equal(t, "Bonk", tokens[0].Name)
	assert.EqualValues(t, 5, tokens[0].Decimals)
	assert.Equal(t, "bonk", tokens[0].CoinGeckoID)
	assert.Equal(t, 2, warnings)
}

func TestGetTokens_MissingFile(t *testing.T) {
	l := NewTokenLoader(filepath.Join(t.TempDir(), "absent.json"), nil, nil)
	tokens, err := l.GetTokens()
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestGetTokens_Malformed(t *testing.T) {
	l := NewTokenLoader(writeFile(t, `{"mint":`), nil, nil)
	_, err := l.GetTokens()
	assert.Error(t, err)
}
