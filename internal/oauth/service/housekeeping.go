package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/toydev/grantd/internal/oauth/store"
)

// HousekeepingService periodically deletes expired authorization codes and
// access tokens so the in-memory maps do not grow without bound. Expiry
// enforcement itself happens lazily on every store read; the sweeper only
// reclaims memory.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 10 minutes.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweeper. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the sweeper down, blocking until any in-progress sweep ends.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep deletes expired records. The two sweeps are independent; a failure
// in one does not stop the other.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()
	now := time.Now()

	codes, err := s.Store.AuthorizationCodes().DeleteExpiredAuthorizationCodes(ctx, now)
	if err != nil {
		s.Logger.Error("failed to sweep authorization codes", "error", err)
	}

	tokens, err := s.Store.AccessTokens().DeleteExpiredAccessTokens(ctx, now)
	if err != nil {
		s.Logger.Error("failed to sweep access tokens", "error", err)
	}

	if codes > 0 || tokens > 0 {
		s.Logger.Info("housekeeping sweep completed", "codes_deleted", codes, "tokens_deleted", tokens)
	}
}
