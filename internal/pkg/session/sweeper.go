package session

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yigit/admission/internal/pkg/logger"
)

// Sweeper periodically purges expired sessions from a Store
type Sweeper struct {
	cron  *cron.Cron
	store Store
	now   func() time.Time

	onSwept func(removed int)
}

// NewSweeper schedules a sweep every interval
func NewSweeper(store Store, interval time.Duration) (*Sweeper, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}

	s := &Sweeper{
		cron:  cron.New(),
		store: store,
		now:   time.Now,
	}
	if _, err := s.cron.AddFunc("@every "+interval.String(), s.run); err != nil {
		return nil, fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	return s, nil
}

// OnSwept registers fn to receive the count of every scheduled sweep
func (s *Sweeper) OnSwept(fn func(removed int)) *Sweeper {
	s.onSwept = fn
	return s
}

// Start begins the schedule in its own goroutine
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to end
func (s *Sweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// SweepNow runs one sweep synchronously
func (s *Sweeper) SweepNow(ctx context.Context) (int, error) {
	return s.store.Sweep(ctx, s.now())
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.SweepNow(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Session sweep failed")
		return
	}
	if s.onSwept != nil {
		s.onSwept(removed)
	}
	if removed > 0 {
		logger.Debug().Int("removed", removed).Msg("Expired sessions swept")
	}
}
