package tokenloader

import (
	"errors"
	"fmt"
	"io/fs"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/utils"
)

const defaultTokenFilePath = "data/tokens/mainnet-beta.json"

// TokenFileLoader implements the port.TokenProvider interface by reading a JSON token list.
type TokenFileLoader struct {
	filePath   string
	loggerInfo func(msg string, args ...any)
	loggerWarn func(msg string, args ...any)
}

// NewTokenLoader creates a new TokenFileLoader. An empty filePath selects the default list.
func NewTokenLoader(filePath string, loggerInfo func(msg string, args ...any), loggerWarn func(msg string, args ...any)) port.TokenProvider {
	if filePath == "" {
		filePath = defaultTokenFilePath
	}
	return &TokenFileLoader{
		filePath:   filePath,
		loggerInfo: loggerInfo,
		loggerWarn: loggerWarn,
	}
}

// GetTokens reads the token list. A missing file yields no tokens; an unreadable or
// malformed file is an error. Entries without a valid mint or symbol are skipped.
func (l *TokenFileLoader) GetTokens() ([]entity.TokenInfo, error) {
	tokens, err := utils.LoadTokensFromJSON(l.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if l.loggerWarn != nil {
				l.loggerWarn("Token file not found, only built-in tokens will be known", "path", l.filePath)
			}
			return []entity.TokenInfo{}, nil
		}
		return nil, fmt.Errorf("failed to load token file %s: %w", l.filePath, err)
	}

	valid := make([]entity.TokenInfo, 0, len(tokens))
	for i, token := range tokens {
		if token.Symbol == "" {
			if l.loggerWarn != nil {
				l.loggerWarn("Token without symbol in file, skipping token.", "file", l.filePath, "index", i, "mint", token.Mint)
			}
			continue
		}
		if err := utils.ValidateSolanaAddress(token.Mint); err != nil {
			if l.loggerWarn != nil {
				l.loggerWarn("Token has invalid mint in file, skipping token.", "file", l.filePath, "symbol", token.Symbol, "error", err)
			}
			continue
		}
		valid = append(valid, token)
	}

	if l.loggerInfo != nil {
		l.loggerInfo("Successfully loaded tokens from file", "file", l.filePath, "count", len(valid))
	}
	return valid, nil
}
