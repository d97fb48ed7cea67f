package utils

import (
	"fmt"
	"strings"

	"portfolio_dashboard/internal/domain/entity"
)

const (
	base58Alphabet   = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	minAddressLength = 32
	maxAddressLength = 44
)

// ValidateSolanaAddress checks that address looks like a base58-encoded public key.
func ValidateSolanaAddress(address string) error {
	if address == "" {
		return &entity.InvalidAddressError{Address: address, Reason: "address is empty"}
	}
	if n := len(address); n < minAddressLength || n > maxAddressLength {
		return &entity.InvalidAddressError{
			Address: address,
			Reason:  fmt.Sprintf("length %d outside %d-%d", n, minAddressLength, maxAddressLength),
		}
	}
	for i, r := range address {
		if !strings.ContainsRune(base58Alphabet, r) {
			return &entity.InvalidAddressError{
				Address: address,
				Reason:  fmt.Sprintf("invalid base58 character %q at position %d", r, i),
			}
		}
	}
	return nil
}
