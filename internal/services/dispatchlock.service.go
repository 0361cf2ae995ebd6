package services

import (
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
)

// NOTIFICATION_COOLDOWN is the window during which at most one outbound
// notification may be dispatched, process-wide.
const NOTIFICATION_COOLDOWN = 10 * time.Second

// DispatchLock is a single-flight, time-windowed guard around the external
// notification call. The call is non-idempotent and costly (it embeds a
// compressed photo), so rapid repeated submissions must not produce
// duplicate emails. The lock also suppresses legitimate back-to-back
// notifications for different rooms inside the window; that false negative
// is accepted in exchange for simplicity.
//
// The lock is constructor-injected into the submission pipeline and never
// accessed as ambient global state. It is not persisted: a process restart
// always starts unlocked.
type DispatchLock struct {
	mu       sync.Mutex
	cooldown time.Duration
	now      func() time.Time
	locked   bool
	lastSend time.Time
	release  *time.Timer
	log      logger.Logger
}

// NewDispatchLock creates an unlocked guard. A nil clock defaults to
// time.Now; tests substitute their own.
func NewDispatchLock(cooldown time.Duration, now func() time.Time) *DispatchLock {
	if now == nil {
		now = time.Now
	}

	return &DispatchLock{
		cooldown: cooldown,
		now:      now,
		log:      logger.New("dispatchLock"),
	}
}

// TryAcquire attempts to claim the dispatch slot. Acquisition is denied
// while the lock is held or while the cooldown from the last send attempt
// has not elapsed. Denied callers must skip the notification, not queue.
func (l *DispatchLock) TryAcquire() bool {
	log := l.log.Function("TryAcquire")

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if l.locked {
		log.Info("dispatch denied, lock held", "lastSend", l.lastSend)
		return false
	}

	if !l.lastSend.IsZero() && now.Sub(l.lastSend) < l.cooldown {
		log.Info("dispatch denied, within cooldown", "lastSend", l.lastSend, "cooldown", l.cooldown)
		return false
	}

	l.locked = true
	l.lastSend = now

	return true
}

// Release schedules the lock to open again one cooldown after now,
// regardless of whether the guarded call succeeded. A newer release always
// cancels and replaces a previously scheduled one.
func (l *DispatchLock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.release != nil {
		l.release.Stop()
	}

	l.release = time.AfterFunc(l.cooldown, func() {
		l.mu.Lock()
		l.locked = false
		l.release = nil
		l.mu.Unlock()
	})
}
