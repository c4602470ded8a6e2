package server

import (
	"sync"
	"time"
)

// Scheduler runs a single-shot callback after a delay, tied to a game. The
// GameManager keeps at most one pending task per game; cancellation of a
// fired or already-cancelled task is a no-op.
type Scheduler interface {
	Schedule(gameID int, delay time.Duration, fn func()) *ScheduledTask
	Cancel(task *ScheduledTask)
}

// ScheduledTask is the handle for one pending callback.
type ScheduledTask struct {
	GameID int

	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
}

// TimerScheduler is the wall-clock Scheduler used in production. Tests
// substitute a fake so countdowns and question timeouts are deterministic.
type TimerScheduler struct{}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

func (s *TimerScheduler) Schedule(gameID int, delay time.Duration, fn func()) *ScheduledTask {
	task := &ScheduledTask{GameID: gameID}
	task.timer = time.AfterFunc(delay, func() {
		task.mu.Lock()
		cancelled := task.cancelled
		task.mu.Unlock()
		if cancelled {
			return
		}
		fn()
	})
	return task
}

func (s *TimerScheduler) Cancel(task *ScheduledTask) {
	if task == nil {
		return
	}
	task.mu.Lock()
	task.cancelled = true
	task.mu.Unlock()
	if task.timer != nil {
		task.timer.Stop()
	}
}
