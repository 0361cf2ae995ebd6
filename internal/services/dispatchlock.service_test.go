package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatchLock_SingleFlight(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	lock := NewDispatchLock(NOTIFICATION_COOLDOWN, func() time.Time { return now })

	assert.True(t, lock.TryAcquire())
	assert.False(t, lock.TryAcquire(), "second acquisition while held must be denied")
}

func TestDispatchLock_CooldownDeniesAfterRelease(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	lock := NewDispatchLock(NOTIFICATION_COOLDOWN, func() time.Time { return now })

	assert.True(t, lock.TryAcquire())
	lock.Release()

	// The wall-clock cooldown denies re-acquisition even if the timer-based
	// unlock were to fire early.
	now = now.Add(5 * time.Second)
	assert.False(t, lock.TryAcquire())
}

func TestDispatchLock_ReopensAfterCooldown(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	lock := NewDispatchLock(10*time.Millisecond, func() time.Time { return now })

	assert.True(t, lock.TryAcquire())
	lock.Release()

	now = now.Add(time.Second)
	assert.Eventually(t, func() bool {
		return lock.TryAcquire()
	}, time.Second, 5*time.Millisecond, "lock must reopen one cooldown after release")
}

func TestDispatchLock_ReleaseReplacesPendingUnlock(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	lock := NewDispatchLock(20*time.Millisecond, func() time.Time { return now })

	assert.True(t, lock.TryAcquire())
	lock.Release()
	lock.Release()

	now = now.Add(time.Second)
	assert.Eventually(t, func() bool {
		return lock.TryAcquire()
	}, time.Second, 5*time.Millisecond)
}

func TestDispatchLock_StartsUnlocked(t *testing.T) {
	lock := NewDispatchLock(NOTIFICATION_COOLDOWN, nil)
	assert.True(t, lock.TryAcquire())
}
