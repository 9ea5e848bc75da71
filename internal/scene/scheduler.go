package scene

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// SchedulerState tracks the lifecycle of the periodic refresh.
type SchedulerState int

const (
	SchedulerIdle SchedulerState = iota
	SchedulerScheduled
	SchedulerCancelled
)

func (s SchedulerState) String() string {
	switch s {
	case SchedulerIdle:
		return "idle"
	case SchedulerScheduled:
		return "scheduled"
	case SchedulerCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Scheduler runs a callback at a fixed interval on a background goroutine.
// Cancel blocks until any in-flight callback has returned, so after Cancel
// the caller holds exclusive use of whatever the callback touches. A
// cancelled scheduler can be re-armed with Schedule.
type Scheduler struct {
	mu     sync.Mutex
	state  SchedulerState
	stop   chan struct{}
	done   chan struct{}
	logger *slog.Logger
}

// NewScheduler creates an idle scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Schedule starts invoking fn every interval. It fails if a callback is
// already scheduled; Cancel first to replace it.
func (s *Scheduler) Schedule(interval time.Duration, fn func()) error {
	if interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SchedulerScheduled {
		return fmt.Errorf("scheduler already armed")
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop = stop
	s.done = done
	s.state = SchedulerScheduled

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	s.logger.Debug("scheduler armed", "interval", interval.String())
	return nil
}

// Cancel stops the periodic callback and waits for an in-flight invocation
// to finish. It is a no-op on an idle or already cancelled scheduler.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	if s.state != SchedulerScheduled {
		s.mu.Unlock()
		return
	}
	s.state = SchedulerCancelled
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Debug("scheduler cancelled")
}
