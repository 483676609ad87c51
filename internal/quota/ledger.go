// Package quota tracks per-identity generation budgets over a fixed time
// window. State is held in process memory only: a service restart resets
// every window, which is the documented durability level.
package quota

import (
	"log/slog"
	"sync"
	"time"
)

// Outcome is the result of an admission attempt.
type Outcome struct {
	// Allowed reports whether the request was admitted. Admission consumes
	// one unit of the identity's budget; a rejected attempt consumes nothing.
	Allowed bool

	// RetryAfter is the remaining time until the identity's window expires.
	// Only set when Allowed is false.
	RetryAfter time.Duration
}

// sweepEvery is how many entry lookups pass between eviction sweeps of
// expired windows.
const sweepEvery = 1024

// entry holds one identity's window state. The entry mutex serializes
// admission decisions for that identity without blocking other identities.
type entry struct {
	mu          sync.Mutex
	windowStart time.Time
	consumed    int

	// evicted marks an entry removed from the map by a sweep. A caller that
	// still holds a pointer to it must retry the lookup instead of admitting
	// against orphaned state.
	evicted bool
}

// Ledger admits generation requests against a per-identity budget.
// A window opens on an identity's first consumption and lasts for the
// configured duration; once the budget is exhausted, further attempts are
// rejected until the window expires.
type Ledger struct {
	budget int
	window time.Duration
	logger *slog.Logger

	// now is replaceable in tests.
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	lookups int
}

// NewLedger creates a Ledger with the given budget and window duration.
// If logger is nil, a default logger will be used.
func NewLedger(budget int, window time.Duration, logger *slog.Logger) *Ledger {
	if budget <= 0 {
		panic("quota budget must be positive")
	}
	if window <= 0 {
		panic("quota window must be positive")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Ledger{
		budget:  budget,
		window:  window,
		logger:  logger.With(slog.String("component", "quota_ledger")),
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Admit checks the identity's window and, if budget remains, consumes one
// unit. The check and increment are atomic with respect to concurrent Admit
// calls for the same identity, so two callers can never both take the last
// unit. Calls for different identities do not contend on the same lock.
func (l *Ledger) Admit(identity string) Outcome {
	for {
		e := l.entry(identity)
		if outcome, ok := l.admitEntry(identity, e); ok {
			return outcome
		}
		// The entry was evicted between lookup and lock; fetch a live one.
	}
}

// admitEntry runs the admission decision against one entry. It reports false
// when the entry was evicted before the lock was taken.
func (l *Ledger) admitEntry(identity string, e *entry) (Outcome, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.evicted {
		return Outcome{}, false
	}

	now := l.now()

	// A fresh identity or an expired window starts a new window with zero
	// consumed units. The window is anchored at this first consumption.
	if e.consumed == 0 || !now.Before(e.windowStart.Add(l.window)) {
		e.windowStart = now
		e.consumed = 0
	}

	if e.consumed < l.budget {
		e.consumed++
		return Outcome{Allowed: true}, true
	}

	retryAfter := e.windowStart.Add(l.window).Sub(now)
	l.logger.Warn("generation request rejected by quota",
		slog.String("identity", identity),
		slog.Duration("retry_after", retryAfter))

	return Outcome{Allowed: false, RetryAfter: retryAfter}, true
}

// entry returns the identity's window state, creating it lazily. The ledger
// mutex only covers the map lookup, never the admission decision. Every
// sweepEvery lookups it also evicts expired entries so identities that never
// come back do not grow the map forever.
func (l *Ledger) entry(identity string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lookups++
	if l.lookups >= sweepEvery {
		l.lookups = 0
		l.sweepLocked()
	}

	e, ok := l.entries[identity]
	if !ok {
		e = &entry{}
		l.entries[identity] = e
	}
	return e
}

// sweepLocked removes entries whose windows have expired. Callers must hold
// the ledger mutex. Entries currently locked by an admission in flight are
// skipped and picked up by a later sweep.
func (l *Ledger) sweepLocked() {
	now := l.now()
	for identity, e := range l.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.consumed == 0 || !now.Before(e.windowStart.Add(l.window)) {
			e.evicted = true
			delete(l.entries, identity)
		}
		e.mu.Unlock()
	}
}
