// Package scheduler fires a callback once per applicant after a delay, with
// cancellation and idempotent re-scheduling. Timer state is in-memory only;
// durability comes from the record store's submitted_at timestamps, which the
// admission service uses to rebuild this set at bootstrap.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FireFunc is invoked in its own goroutine when a timer expires. The callback
// must re-read the applicant's current status before acting; the scheduler
// guarantees only that it runs at most once per scheduled timer.
type FireFunc func(ctx context.Context, applicantID string)

// Scheduler owns the active timer set, keyed by applicant id. The map guarded
// by a single mutex is the only shared mutable state in the subsystem;
// timers for different applicants never contend beyond the map operations.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*pendingTimer
	fire   FireFunc
	logger *zap.SugaredLogger
	wg     sync.WaitGroup
	closed bool
}

// pendingTimer tracks one scheduled fire. The entry pointer doubles as the
// claim token: expiry and cancellation race to remove it from the map, and
// whichever side removes it wins.
type pendingTimer struct {
	timer *time.Timer
	dueAt time.Time
}

// New creates a scheduler that invokes fire when a timer expires.
func New(fire FireFunc, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		timers: make(map[string]*pendingTimer),
		fire:   fire,
		logger: logger,
	}
}

// Schedule starts a timer for the applicant. Any existing timer for the same
// id is cancelled first: the latest call wins, and there is never more than
// one pending timer per applicant. Negative delays are treated as zero.
func (s *Scheduler) Schedule(applicantID string, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warnw("Schedule called after shutdown", "applicant_id", applicantID)
		return
	}

	if existing, ok := s.timers[applicantID]; ok {
		existing.timer.Stop()
		delete(s.timers, applicantID)
	}

	entry := &pendingTimer{dueAt: time.Now().Add(delay)}
	entry.timer = time.AfterFunc(delay, func() {
		s.onExpire(applicantID, entry)
	})
	s.timers[applicantID] = entry
	s.mu.Unlock()

	s.logger.Infow("Timer scheduled",
		"applicant_id", applicantID,
		"delay", delay,
		"due_at", entry.dueAt.Format(time.RFC3339),
	)
}

// Cancel stops the pending timer for the applicant. It is a no-op when no
// timer exists, including the case where the timer already expired and
// claimed itself: cancellation wins only if it happens-before the expiry's
// claim, otherwise the fire proceeds and Cancel reports false.
func (s *Scheduler) Cancel(applicantID string) bool {
	s.mu.Lock()
	entry, ok := s.timers[applicantID]
	if ok {
		entry.timer.Stop()
		delete(s.timers, applicantID)
	}
	s.mu.Unlock()

	if ok {
		s.logger.Infow("Timer cancelled", "applicant_id", applicantID)
	}
	return ok
}

// Pending reports whether a timer is active for the applicant and, if so,
// when it is due.
func (s *Scheduler) Pending(applicantID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.timers[applicantID]
	if !ok {
		return time.Time{}, false
	}
	return entry.dueAt, true
}

// Active returns the number of pending timers.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// onExpire runs in the timer's own goroutine. It claims the entry by removing
// it from the active set; if a concurrent Cancel or a superseding Schedule
// removed it first, the expiry is a no-op. The claim happens before the fire
// callback, so a fired timer is never seen as still pending.
func (s *Scheduler) onExpire(applicantID string, entry *pendingTimer) {
	s.mu.Lock()
	current, ok := s.timers[applicantID]
	if !ok || current != entry {
		// Lost the race to a cancel or a re-schedule.
		s.mu.Unlock()
		return
	}
	delete(s.timers, applicantID)
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()
	s.logger.Infow("Timer fired", "applicant_id", applicantID)
	s.fire(context.Background(), applicantID)
}

// Shutdown cancels every active timer and waits for in-flight fire callbacks
// to finish. This is cleanup, not a cancellation of the underlying business
// decision: a restart followed by recovery reaches the same outcome.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	cancelled := len(s.timers)
	for id, entry := range s.timers {
		entry.timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()

	if cancelled > 0 {
		s.logger.Infow("Scheduler shut down", "timers_cancelled", cancelled)
	}
}
