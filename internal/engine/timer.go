package engine

import "time"

// Timer is the cancellable handle behind a pending delete. *time.Timer
// satisfies it; tests substitute a fake so grace windows can be driven
// without sleeping.
type Timer interface {
	Stop() bool
	Reset(d time.Duration) bool
}

// TimerFactory schedules fn after d and returns the handle.
type TimerFactory func(d time.Duration, fn func()) Timer

func afterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// noopTimer backs immediate deletes, which fire synchronously instead of
// through the scheduler.
type noopTimer struct{}

func (noopTimer) Stop() bool               { return false }
func (noopTimer) Reset(time.Duration) bool { return false }
