package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
)

// HousekeepingService periodically deletes terminal invitations and admin
// requests past their retention window. Pending rows are never touched:
// invitation expiry stays lazily evaluated at read time.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping worker. Non-positive
// interval defaults to 1 hour, non-positive retention to 30 days.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "retention", s.Retention)
}

// Stop shuts down the worker and blocks until any in-progress sweep ends.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
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

// sweep performs the deletions. Each one is independent; a failure in one
// does not stop the others.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()
	cutoff := time.Now().Add(-s.Retention)

	if err := s.Store.Invitations().DeleteTerminalInvitationsBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to delete terminal invitations", "error", err)
	}
	if err := s.Store.AdminRequests().DeleteTerminalAdminRequestsBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to delete terminal admin requests", "error", err)
	}

	s.Logger.Debug("housekeeping sweep completed", "cutoff", cutoff)
}
