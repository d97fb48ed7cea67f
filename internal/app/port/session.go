package port

import (
	"context"

	"portfolio_dashboard/internal/domain/entity"
)

// DashboardSession holds the presentation state of a single dashboard.
type DashboardSession interface {
	// Connect selects a wallet and refreshes its portfolio.
	Connect(ctx context.Context, walletAddress string) error
	// Disconnect forgets the wallet and resets the portfolio to empty.
	Disconnect()
	// Refresh re-fetches the connected wallet. Results of superseded refreshes are discarded.
	Refresh(ctx context.Context) error
	ClearError()
	State() entity.SessionState
	// Subscribe returns a channel receiving a copy of the state after every change.
	Subscribe() (id int, updates <-chan entity.SessionState)
	Unsubscribe(id int)
}
