package walletloader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/utils"
)

// LoadWallets reads wallet addresses from filePath, one per line. Blank lines and
// lines starting with '#' are ignored; invalid addresses are reported through skip.
func LoadWallets(filePath string, skip func(msg string, args ...any)) ([]entity.Wallet, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet file %s: %w", filePath, err)
	}
	defer file.Close()

	var wallets []entity.Wallet
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := utils.ValidateSolanaAddress(line); err != nil {
			if skip != nil {
				skip("Skipping invalid wallet address format", "file", filePath, "line_number", lineNum, "error", err)
			}
			continue
		}
		wallets = append(wallets, entity.Wallet{Address: line})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning wallet file %s: %w", filePath, err)
	}
	return wallets, nil
}
