package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type ExpiredSessionDeleter interface {
	DeleteExpired() int
}

type sessionSweeper struct {
	sessions ExpiredSessionDeleter
	interval time.Duration
}

func NewSessionSweeper(sessions ExpiredSessionDeleter, interval time.Duration) *sessionSweeper {
	return &sessionSweeper{
		sessions: sessions,
		interval: interval,
	}
}

func (s *sessionSweeper) Name() string { return "session_sweeper" }

func (s *sessionSweeper) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("non-positive sweep interval %s", s.interval)
	}

	slog.Info("Starting worker", "name", s.Name(), "interval", s.interval)
	defer slog.Info("Worker stopped", "name", s.Name())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.sessions.DeleteExpired(); n > 0 {
				slog.Debug("Expired sessions removed", "count", n)
			}
		}
	}
}
