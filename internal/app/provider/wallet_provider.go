package provider

import (
	"fmt"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/infrastructure/walletloader"
	"portfolio_dashboard/internal/pkg/utils"
)

type walletProviderImpl struct {
	address        string
	walletFilePath string
	logger         port.Logger
}

// NewWalletProvider creates a WalletProvider for the wallet connected at start-up.
// A configured address wins over the first valid entry of the wallet file.
func NewWalletProvider(address, filePath string, logger port.Logger) port.WalletProvider {
	return &walletProviderImpl{address: address, walletFilePath: filePath, logger: logger}
}

// GetWallet returns the start-up wallet, or nil when none is configured.
func (p *walletProviderImpl) GetWallet() (*entity.Wallet, error) {
	if p.address != "" {
		if err := utils.ValidateSolanaAddress(p.address); err != nil {
			p.logger.Error("Configured wallet address is invalid", "error", err)
			return nil, err
		}
		return &entity.Wallet{Address: p.address}, nil
	}
	if p.walletFilePath == "" {
		return nil, nil
	}

	p.logger.Debug("Loading wallets from file", "path", p.walletFilePath)
	wallets, err := walletloader.LoadWallets(p.walletFilePath, p.logger.Warn)
	if err != nil {
		p.logger.Error("Failed to load wallets", "path", p.walletFilePath, "error", err)
		return nil, err
	}
	if len(wallets) == 0 {
		return nil, fmt.Errorf("no valid wallet addresses in %s", p.walletFilePath)
	}
	p.logger.Info("Wallets loaded successfully", "count", len(wallets), "path", p.walletFilePath)
	return &wallets[0], nil
}
