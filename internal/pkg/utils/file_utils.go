package utils

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"portfolio_dashboard/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadTokensFromJSON reads a JSON file containing an array of token registry entries.
func LoadTokensFromJSON(filePath string) ([]entity.TokenInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var tokens []entity.TokenInfo
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode token list %s: %w", filePath, err)
	}
	return tokens, nil
}
