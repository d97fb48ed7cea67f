package walletloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWallets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.txt")
	content := "# watched wallets\n\n9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM\n0x52908400098527886E0F7030069857D2E4169EE7\n  So11111111111111111111111111111111111111112  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var skipped []any
	wallets, err := LoadWallets(path, func(_ string, args ...any) { skipped = append(skipped, args...) })
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	assert.Equal(t, "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM", wallets[0].Address)
	assert.Equal(t, "So11111111111111111111111111111111111111112", wallets[1].Address)
	assert.Contains(t, skipped, 4)
}

func TestLoadWallets_MissingFile(t *testing.T) {
	_, err := LoadWallets(filepath.Join(t.TempDir(), "none.txt"), nil)
	assert.Error(t, err)
}
