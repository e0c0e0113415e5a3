package sessions

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ExpiryFunc is an expiry subscriber. It receives each session ID
// exactly once, on the tick that observed the elapsed expiry.
type ExpiryFunc func(id string)

// Scheduler is the periodic expiry driver. Every tick it asks the
// store to flip due sessions through the same serialized per-id path
// commands use, fans the transitions out to subscribers, and purges
// revoked sessions past their grace interval.
type Scheduler struct {
	log   *slog.Logger
	store *Store

	mu   sync.Mutex
	subs []ExpiryFunc
}

// NewScheduler constructs a Scheduler over a store.
func NewScheduler(log *slog.Logger, store *Store) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{log: log, store: store}
}

// OnExpire registers a subscriber. Safe to call while running.
func (s *Scheduler) OnExpire(fn ExpiryFunc) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Run ticks at the store's configured cadence until ctx is cancelled.
// Returning guarantees no further ticks and no timers left behind.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.store.cfg.TickInterval

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("scheduler.start", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler.stop")
			return ctx.Err()
		case <-s.store.done:
			s.log.Info("scheduler.stop", "reason", "store_closed")
			return nil
		case <-ticker.C:
			s.tick(s.store.clock.Now())
		}
	}
}

// tick performs one expiry evaluation at the given instant.
func (s *Scheduler) tick(now time.Time) {
	start := time.Now()

	expired := s.store.expireDue(now)
	if len(expired) > 0 {
		s.mu.Lock()
		subs := append([]ExpiryFunc(nil), s.subs...)
		s.mu.Unlock()

		for _, snap := range expired {
			for _, fn := range subs {
				fn(snap.ID)
			}
		}
	}

	s.store.purgeRevoked(now)
	s.store.metrics.observeTick(time.Since(start).Seconds())
}
