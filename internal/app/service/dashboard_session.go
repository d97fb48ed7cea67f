package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/metrics"
	"portfolio_dashboard/internal/pkg/utils"
)

// ErrNoWalletConnected is returned by Refresh when no wallet is selected.
var ErrNoWalletConnected = errors.New("no wallet connected")

const subscriberBuffer = 8

type dashboardSessionImpl struct {
	baseCtx      context.Context
	portfolioSvc port.PortfolioService
	logger       port.Logger

	mu          sync.Mutex
	state       entity.SessionState
	cancel      context.CancelFunc
	subscribers map[int]chan entity.SessionState
	nextSubID   int
}

// NewDashboardSession creates a disconnected session. Fetches run under baseCtx,
// not under the context of the request that triggered them.
func NewDashboardSession(baseCtx context.Context, ps port.PortfolioService, l port.Logger) port.DashboardSession {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &dashboardSessionImpl{
		baseCtx:      baseCtx,
		portfolioSvc: ps,
		logger:       l,
		state:        entity.SessionState{Snapshot: entity.EmptyPortfolioSnapshot()},
		subscribers:  make(map[int]chan entity.SessionState),
	}
}

// Connect implements port.DashboardSession.
func (s *dashboardSessionImpl) Connect(ctx context.Context, walletAddress string) error {
	if err := utils.ValidateSolanaAddress(walletAddress); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state.Connected && s.state.WalletAddress == walletAddress {
		s.mu.Unlock()
		return s.Refresh(ctx)
	}
	s.cancelInFlightLocked()
	s.state.Connected = true
	s.state.WalletAddress = walletAddress
	s.state.Snapshot = entity.EmptyPortfolioSnapshot()
	s.state.NativePriceUSD = 0
	s.state.Error = ""
	s.publishLocked()
	s.mu.Unlock()

	s.logger.Info("Wallet connected", "wallet_address", walletAddress)
	return s.Refresh(ctx)
}

// Disconnect implements port.DashboardSession.
func (s *dashboardSessionImpl) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelInFlightLocked()
	s.state = entity.SessionState{
		Snapshot: entity.EmptyPortfolioSnapshot(),
		// a pending fetch must not repopulate the session
		Generation: s.state.Generation + 1,
	}
	s.publishLocked()
	s.logger.Info("Wallet disconnected")
}

// Refresh implements port.DashboardSession. If ctx is done first, Refresh returns
// ctx.Err() and the fetch still completes into the session.
func (s *dashboardSessionImpl) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if !s.state.Connected {
		s.mu.Unlock()
		return ErrNoWalletConnected
	}
	s.cancelInFlightLocked()
	s.state.Generation++
	generation := s.state.Generation
	address := s.state.WalletAddress
	fetchCtx, cancel := context.WithCancel(s.baseCtx)
	s.cancel = cancel
	s.state.Loading = true
	s.state.Error = ""
	s.publishLocked()
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- s.fetch(fetchCtx, cancel, generation, address)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		s.logger.Debug("Caller stopped waiting for portfolio fetch", "generation", generation)
		return ctx.Err()
	}
}

func (s *dashboardSessionImpl) fetch(ctx context.Context, cancel context.CancelFunc, generation uint64, address string) error {
	snapshot, err := s.portfolioSvc.FetchPortfolio(ctx, address)

	s.mu.Lock()
	defer s.mu.Unlock()
	cancel()
	if generation != s.state.Generation {
		metrics.StaleFetchesDiscarded.Inc()
		s.logger.Debug("Discarding superseded portfolio fetch", "generation", generation, "latest", s.state.Generation)
		return nil
	}
	s.cancel = nil
	s.state.Loading = false
	if err != nil {
		s.state.Error = UserMessage(err)
		s.publishLocked()
		return err
	}
	s.state.Snapshot = snapshot
	s.state.NativePriceUSD = snapshot.NativePriceUSD
	s.publishLocked()
	return nil
}

// ClearError implements port.DashboardSession.
func (s *dashboardSessionImpl) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Error == "" {
		return
	}
	s.state.Error = ""
	s.publishLocked()
}

// State implements port.DashboardSession.
func (s *dashboardSessionImpl) State() entity.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe implements port.DashboardSession. The current state is delivered immediately.
func (s *dashboardSessionImpl) Subscribe() (int, <-chan entity.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	ch := make(chan entity.SessionState, subscriberBuffer)
	s.subscribers[s.nextSubID] = ch
	ch <- s.state
	return s.nextSubID, ch
}

// Unsubscribe implements port.DashboardSession.
func (s *dashboardSessionImpl) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

func (s *dashboardSessionImpl) cancelInFlightLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// publishLocked never blocks; a slow subscriber loses its oldest pending update.
func (s *dashboardSessionImpl) publishLocked() {
	for _, ch := range s.subscribers {
		select {
		case ch <- s.state:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s.state:
		default:
		}
	}
}

// UserMessage renders err as a message suitable for display.
func UserMessage(err error) string {
	var (
		invalid      *entity.InvalidAddressError
		rpcErr       *entity.RPCError
		unresolvable *entity.UnresolvableSymbolsError
		priceErr     *entity.PriceServiceError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.As(err, &rpcErr):
		return fmt.Sprintf("Error fetching portfolio data: %v", rpcErr.Err)
	case errors.As(err, &unresolvable):
		return unresolvable.Error()
	case errors.As(err, &priceErr):
		return "Unable to fetch token prices. Please try again later."
	case errors.Is(err, context.Canceled):
		return "Request was cancelled"
	default:
		return err.Error()
	}
}
