package quota

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move the ledger's notion of time forward.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLedger(t *testing.T, budget int, window time.Duration) (*Ledger, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	ledger := NewLedger(budget, window, nil)
	ledger.now = clock.Now
	return ledger, clock
}

func TestAdmitConsumesBudget(t *testing.T) {
	ledger, _ := newTestLedger(t, 5, 24*time.Hour)

	for i := 0; i < 5; i++ {
		outcome := ledger.Admit("user-1")
		assert.True(t, outcome.Allowed, "attempt %d should be admitted", i+1)
		assert.Zero(t, outcome.RetryAfter)
	}

	outcome := ledger.Admit("user-1")
	assert.False(t, outcome.Allowed)
	assert.Greater(t, outcome.RetryAfter, time.Duration(0))
}

func TestRejectionDoesNotConsume(t *testing.T) {
	ledger, clock := newTestLedger(t, 2, time.Hour)

	require.True(t, ledger.Admit("user-1").Allowed)
	require.True(t, ledger.Admit("user-1").Allowed)

	// Hammer the exhausted window; none of these may consume anything.
	for i := 0; i < 10; i++ {
		assert.False(t, ledger.Admit("user-1").Allowed)
	}

	// After expiry the full budget is available again.
	clock.Advance(time.Hour)
	assert.True(t, ledger.Admit("user-1").Allowed)
	assert.True(t, ledger.Admit("user-1").Allowed)
	assert.False(t, ledger.Admit("user-1").Allowed)
}

func TestRetryAfterShrinksAsWindowAges(t *testing.T) {
	ledger, clock := newTestLedger(t, 1, 24*time.Hour)

	require.True(t, ledger.Admit("user-1").Allowed)

	outcome := ledger.Admit("user-1")
	require.False(t, outcome.Allowed)
	assert.Equal(t, 24*time.Hour, outcome.RetryAfter)

	clock.Advance(10 * time.Hour)
	outcome = ledger.Admit("user-1")
	require.False(t, outcome.Allowed)
	assert.Equal(t, 14*time.Hour, outcome.RetryAfter)
}

func TestWindowAnchoredAtFirstConsumption(t *testing.T) {
	ledger, clock := newTestLedger(t, 2, time.Hour)

	require.True(t, ledger.Admit("user-1").Allowed)
	clock.Advance(30 * time.Minute)
	require.True(t, ledger.Admit("user-1").Allowed)

	// 30 minutes left, measured from the first consumption.
	outcome := ledger.Admit("user-1")
	require.False(t, outcome.Allowed)
	assert.Equal(t, 30*time.Minute, outcome.RetryAfter)

	// The second consumption must not have moved the window.
	clock.Advance(30 * time.Minute)
	assert.True(t, ledger.Admit("user-1").Allowed)
}

func TestIdentitiesAreIndependent(t *testing.T) {
	ledger, _ := newTestLedger(t, 1, time.Hour)

	require.True(t, ledger.Admit("user-1").Allowed)
	require.False(t, ledger.Admit("user-1").Allowed)

	// user-2 has an untouched budget.
	assert.True(t, ledger.Admit("user-2").Allowed)
}

func TestConcurrentAdmitNeverOverspends(t *testing.T) {
	const budget = 5
	const attempts = 100

	ledger, _ := newTestLedger(t, budget, 24*time.Hour)

	var wg sync.WaitGroup
	admitted := make(chan struct{}, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ledger.Admit("user-1").Allowed {
				admitted <- struct{}{}
			}
		}()
	}

	wg.Wait()
	close(admitted)

	count := 0
	for range admitted {
		count++
	}
	assert.Equal(t, budget, count, "exactly the budget may be admitted under contention")
}

func TestSweepEvictsExpiredEntries(t *testing.T) {
	ledger, clock := newTestLedger(t, 5, time.Hour)

	require.True(t, ledger.Admit("user-1").Allowed)
	require.True(t, ledger.Admit("user-2").Allowed)
	require.True(t, ledger.Admit("user-3").Allowed)
	require.Len(t, ledger.entries, 3)

	clock.Advance(2 * time.Hour)

	// Force the next lookup to cross the sweep threshold.
	ledger.mu.Lock()
	ledger.lookups = sweepEvery - 1
	ledger.mu.Unlock()

	require.True(t, ledger.Admit("user-4").Allowed)

	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	assert.Len(t, ledger.entries, 1, "expired windows must be dropped from the map")
	assert.Contains(t, ledger.entries, "user-4")
}

func TestSweepKeepsActiveEntries(t *testing.T) {
	ledger, _ := newTestLedger(t, 5, time.Hour)

	require.True(t, ledger.Admit("user-1").Allowed)

	ledger.mu.Lock()
	ledger.lookups = sweepEvery - 1
	ledger.mu.Unlock()

	require.True(t, ledger.Admit("user-2").Allowed)

	// user-1's window is still open, so its state must survive the sweep.
	ledger.mu.Lock()
	assert.Contains(t, ledger.entries, "user-1")
	ledger.mu.Unlock()

	for i := 0; i < 4; i++ {
		require.True(t, ledger.Admit("user-1").Allowed)
	}
	assert.False(t, ledger.Admit("user-1").Allowed)
}

func TestEvictedIdentityGetsFreshBudget(t *testing.T) {
	ledger, clock := newTestLedger(t, 1, time.Hour)

	require.True(t, ledger.Admit("user-1").Allowed)
	require.False(t, ledger.Admit("user-1").Allowed)

	clock.Advance(2 * time.Hour)
	ledger.mu.Lock()
	ledger.lookups = sweepEvery - 1
	ledger.mu.Unlock()

	// The sweep drops the expired entry; a returning identity starts over.
	assert.True(t, ledger.Admit("user-1").Allowed)
	assert.False(t, ledger.Admit("user-1").Allowed)
}

func TestAdmitIgnoresEvictedEntry(t *testing.T) {
	ledger, _ := newTestLedger(t, 1, time.Hour)

	// An entry removed by a sweep must never admit against orphaned state.
	_, ok := ledger.admitEntry("user-1", &entry{evicted: true})
	assert.False(t, ok)

	// A live lookup is unaffected.
	assert.True(t, ledger.Admit("user-1").Allowed)
}

func TestNewLedgerValidation(t *testing.T) {
	assert.Panics(t, func() { NewLedger(0, time.Hour, nil) })
	assert.Panics(t, func() { NewLedger(5, 0, nil) })
}
