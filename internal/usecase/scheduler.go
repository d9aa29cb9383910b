package usecase

import "time"

// Task is a scheduled call that can still be cancelled.
type Task interface {
	// Stop reports whether the call was prevented from running.
	Stop() bool
}

// Scheduler runs fn once after delay.
type Scheduler interface {
	AfterFunc(delay time.Duration, fn func()) Task
}

type timerScheduler struct{}

// NewTimerScheduler schedules on the runtime timers.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) AfterFunc(delay time.Duration, fn func()) Task {
	return time.AfterFunc(delay, fn)
}
