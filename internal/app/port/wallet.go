package port

import "portfolio_dashboard/internal/domain/entity"

// WalletProvider supplies the wallet to connect on start-up, if any.
type WalletProvider interface {
	GetWallet() (*entity.Wallet, error)
}
