package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-reservations/models"
)

// SlotLocker hands out in-process mutexes per key. Entries are reference
// counted and dropped once nobody holds or waits on them.
type SlotLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewSlotLocker() *SlotLocker {
	return &SlotLocker{locks: make(map[string]*keyedLock)}
}

// LockSlot serialises allocation for one (date, time slot).
func (l *SlotLocker) LockSlot(date time.Time, slot models.TimeSlot) func() {
	return l.lock(fmt.Sprintf("slot|%s|%s", date.Format(models.DateLayout), slot))
}

// LockCustomerDay serialises writes for one customer on one date so the
// one-reservation-per-day rule cannot be raced. Take it before LockSlot.
func (l *SlotLocker) LockCustomerDay(customerID uint, date time.Time) func() {
	return l.lock(fmt.Sprintf("customer|%d|%s", customerID, date.Format(models.DateLayout)))
}

func (l *SlotLocker) lock(key string) func() {
	l.mu.Lock()
	k, ok := l.locks[key]
	if !ok {
		k = &keyedLock{}
		l.locks[key] = k
	}
	k.refs++
	l.mu.Unlock()

	k.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			k.mu.Unlock()
			l.mu.Lock()
			k.refs--
			if k.refs == 0 {
				delete(l.locks, key)
			}
			l.mu.Unlock()
		})
	}
}

// held returns the number of live keys; used by tests.
func (l *SlotLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
