package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// InventoryResetter restores weekly remaining counts.
type InventoryResetter interface {
	ResetAll(ctx context.Context) (int64, error)
}

// DefaultCheckInterval is how often the scheduler polls the clock.
const DefaultCheckInterval = 15 * time.Second

// catchUpWindow is how late after the scheduled minute a delayed check may
// still run the reset.
const catchUpWindow = 5 * time.Minute

// ResetScheduler performs the weekly inventory reset at a fixed weekday and
// minute in the bakery's timezone. A check that lands up to catchUpWindow
// after the scheduled minute still fires, at most once per week.
type ResetScheduler struct {
	resetter InventoryResetter
	weekday  time.Weekday
	minute   int
	loc      *time.Location
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	lastFired time.Time
	wg        sync.WaitGroup
	cancel    context.CancelFunc
	mu        sync.Mutex
}

// NewResetScheduler constructs ResetScheduler firing on weekday at minute
// (minutes after midnight) in loc.
func NewResetScheduler(resetter InventoryResetter, weekday time.Weekday, minute int, loc *time.Location, interval time.Duration, logger *slog.Logger) *ResetScheduler {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	if interval > time.Minute {
		interval = time.Minute
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ResetScheduler{
		resetter: resetter,
		weekday:  weekday,
		minute:   minute,
		loc:      loc,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start launches the polling loop.
func (s *ResetScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(runCtx)
}

// Stop ends the loop and waits for an in-flight reset.
func (s *ResetScheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *ResetScheduler) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick resets at most once per scheduled slot.
func (s *ResetScheduler) tick(ctx context.Context) bool {
	local := s.now().In(s.loc)
	slot := s.lastSlot(local)
	if local.Sub(slot) >= catchUpWindow || slot.Equal(s.lastFired) {
		return false
	}

	affected, err := s.resetter.ResetAll(ctx)
	if err != nil {
		// the next tick inside the catch-up window retries
		s.logger.Error("scheduled weekly reset failed", slog.String("error", err.Error()))
		return false
	}
	s.lastFired = slot
	s.logger.Info("scheduled weekly reset done", slog.Int64("products", affected), slog.Time("slot", slot))
	return true
}

// lastSlot returns the most recent scheduled instant at or before local.
func (s *ResetScheduler) lastSlot(local time.Time) time.Time {
	daysBack := (int(local.Weekday()) - int(s.weekday) + 7) % 7
	y, m, d := local.Date()
	slot := time.Date(y, m, d-daysBack, 0, s.minute, 0, 0, s.loc)
	if slot.After(local) {
		slot = time.Date(y, m, d-daysBack-7, 0, s.minute, 0, 0, s.loc)
	}
	return slot
}
