package entity

import (
	"fmt"
	"strings"
)

// PortfolioError represents an error that occurred while fetching a portfolio,
// in the shape returned to API clients.
type PortfolioError struct {
	WalletAddress string `json:"walletAddress,omitempty"`
	Code          string `json:"code,omitempty"`
	Message       string `json:"message"`
}

// UnresolvableSymbolsError is returned by the price resolver when a batch
// contains symbols that have neither a price-service mapping nor a fallback price.
type UnresolvableSymbolsError struct {
	Symbols []string
}

func (e *UnresolvableSymbolsError) Error() string {
	return fmt.Sprintf("unable to fetch price for token(s): %s", strings.Join(e.Symbols, ", "))
}

// PriceServiceError wraps a failed call to the external price service.
type PriceServiceError struct {
	Err error
}

func (e *PriceServiceError) Error() string {
	return fmt.Sprintf("unable to fetch token prices: %v", e.Err)
}

func (e *PriceServiceError) Unwrap() error { return e.Err }

// RPCError wraps a failed call to the blockchain RPC node.
type RPCError struct {
	Method string
	Err    error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc %s failed: %v", e.Method, e.Err)
}

func (e *RPCError) Unwrap() error { return e.Err }

// InvalidAddressError is returned for wallet addresses that are not valid base58 public keys.
type InvalidAddressError struct {
	Address string
	Reason  string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid wallet address %q: %s", e.Address, e.Reason)
}
