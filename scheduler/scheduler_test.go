package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// fireRecorder counts fires per applicant id.
type fireRecorder struct {
	mu    sync.Mutex
	fires map[string]int
	done  chan string
}

func newFireRecorder() *fireRecorder {
	return &fireRecorder{
		fires: make(map[string]int),
		done:  make(chan string, 64),
	}
}

func (r *fireRecorder) fire(_ context.Context, applicantID string) {
	r.mu.Lock()
	r.fires[applicantID]++
	r.mu.Unlock()
	r.done <- applicantID
}

func (r *fireRecorder) count(applicantID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fires[applicantID]
}

func waitForFire(t *testing.T, r *fireRecorder, want string) {
	t.Helper()
	select {
	case got := <-r.done:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timer for %s never fired", want)
	}
}

func TestScheduleFiresOnce(t *testing.T) {
	rec := newFireRecorder()
	s := New(rec.fire, testLogger())
	defer s.Shutdown()

	s.Schedule("APL_1", 10*time.Millisecond)
	waitForFire(t, rec, "APL_1")

	// The fired timer must have removed itself from the active set.
	assert.Equal(t, 0, s.Active())
	assert.Equal(t, 1, rec.count("APL_1"))
}

func TestCancelBeforeFire(t *testing.T) {
	rec := newFireRecorder()
	s := New(rec.fire, testLogger())
	defer s.Shutdown()

	s.Schedule("APL_1", 100*time.Millisecond)
	require.True(t, s.Cancel("APL_1"))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, rec.count("APL_1"))
	assert.Equal(t, 0, s.Active())
}

func TestCancelWithoutTimerIsNoop(t *testing.T) {
	rec := newFireRecorder()
	s := New(rec.fire, testLogger())
	defer s.Shutdown()

	assert.False(t, s.Cancel("APL_unknown"))
}

func TestRescheduleLatestWins(t *testing.T) {
	rec := newFireRecorder()
	s := New(rec.fire, testLogger())
	defer s.Shutdown()

	// First timer would fire quickly; the re-schedule replaces it with a
	// longer one, so nothing may fire before the second delay elapses.
	s.Schedule("APL_1", 20*time.Millisecond)
	s.Schedule("APL_1", 150*time.Millisecond)
	assert.Equal(t, 1, s.Active())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 0, rec.count("APL_1"))

	waitForFire(t, rec, "APL_1")
	assert.Equal(t, 1, rec.count("APL_1"))
}

func TestZeroDelayFiresImmediately(t *testing.T) {
	rec := newFireRecorder()
	s := New(rec.fire, testLogger())
	defer s.Shutdown()

	s.Schedule("APL_1", 0)
	waitForFire(t, rec, "APL_1")
	assert.Equal(t, 1, rec.count("APL_1"))
}

func TestPending(t *testing.T) {
	rec := newFireRecorder()
	s := New(rec.fire, testLogger())
	defer s.Shutdown()

	_, ok := s.Pending("APL_1")
	assert.False(t, ok)

	s.Schedule("APL_1", time.Minute)
	dueAt, ok := s.Pending("APL_1")
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), dueAt, 5*time.Second)
}

func TestConcurrentCancelAndFireNeverDoubles(t *testing.T) {
	// Hammer the cancel/expiry race: for every round, either the cancel wins
	// (zero fires) or the expiry wins (exactly one fire) - never both.
	var fired int32
	s := New(func(_ context.Context, _ string) {
		atomic.AddInt32(&fired, 1)
	}, testLogger())
	defer s.Shutdown()

	const rounds = 200
	cancelled := 0
	for i := 0; i < rounds; i++ {
		atomic.StoreInt32(&fired, 0)
		s.Schedule("APL_race", time.Millisecond)
		time.Sleep(time.Duration(i%3) * time.Millisecond / 2)
		won := s.Cancel("APL_race")

		// Let any in-flight expiry drain.
		time.Sleep(10 * time.Millisecond)

		fires := atomic.LoadInt32(&fired)
		if won {
			cancelled++
			assert.EqualValues(t, 0, fires, "round %d: cancel won but timer fired", i)
		} else {
			assert.EqualValues(t, 1, fires, "round %d: cancel lost but fire count != 1", i)
		}
	}

	// Sanity: both outcomes should occur across the rounds.
	t.Logf("cancel won %d/%d rounds", cancelled, rounds)
}

func TestIndependentApplicants(t *testing.T) {
	rec := newFireRecorder()
	s := New(rec.fire, testLogger())
	defer s.Shutdown()

	s.Schedule("APL_1", 10*time.Millisecond)
	s.Schedule("APL_2", 10*time.Millisecond)
	s.Schedule("APL_3", time.Hour)

	// Both short timers fire, in either order.
	for i := 0; i < 2; i++ {
		select {
		case <-rec.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timer %d never fired", i+1)
		}
	}
	assert.Equal(t, 1, rec.count("APL_1"))
	assert.Equal(t, 1, rec.count("APL_2"))

	assert.Equal(t, 1, s.Active())
	assert.Equal(t, 0, rec.count("APL_3"))
}

func TestSlowFireDoesNotBlockOtherTimers(t *testing.T) {
	release := make(chan struct{})
	fast := make(chan struct{})
	s := New(func(_ context.Context, id string) {
		switch id {
		case "APL_slow":
			<-release
		case "APL_fast":
			close(fast)
		}
	}, testLogger())

	s.Schedule("APL_slow", time.Millisecond)
	time.Sleep(20 * time.Millisecond) // slow callback is now parked
	s.Schedule("APL_fast", time.Millisecond)

	select {
	case <-fast:
	case <-time.After(2 * time.Second):
		t.Fatal("fast timer blocked behind slow callback")
	}

	close(release)
	s.Shutdown()
}

func TestShutdownCancelsAllTimers(t *testing.T) {
	rec := newFireRecorder()
	s := New(rec.fire, testLogger())

	s.Schedule("APL_1", time.Hour)
	s.Schedule("APL_2", time.Hour)
	require.Equal(t, 2, s.Active())

	s.Shutdown()
	assert.Equal(t, 0, s.Active())

	// Scheduling after shutdown is ignored.
	s.Schedule("APL_3", time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rec.count("APL_3"))
}
