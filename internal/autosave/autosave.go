// Package autosave runs an operation once, a fixed delay after the most
// recent edit.
//
// Every Restart pushes the deadline back to a full delay from now. After the
// operation runs the timer stays idle until the next Restart.
package autosave

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultDelay is used when Config.Delay is zero.
const DefaultDelay = time.Minute

// Config holds configuration options for a Timer.
type Config struct {
	Delay     time.Duration // Default: one minute
	Operation func()
	Logger    *slog.Logger
}

// Timer is a restartable one-shot timer. It is safe for concurrent use. The
// operation runs on its own goroutine; callers that need it on a particular
// goroutine should have it send on a channel.
type Timer struct {
	delay     time.Duration
	operation func()
	logger    *slog.Logger

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
}

// New creates an idle Timer.
func New(cfg Config) (*Timer, error) {
	if cfg.Operation == nil {
		return nil, fmt.Errorf("operation is required")
	}
	if cfg.Delay < 0 {
		return nil, fmt.Errorf("delay must not be negative, got %s", cfg.Delay)
	}

	delay := cfg.Delay
	if delay == 0 {
		delay = DefaultDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Timer{
		delay:     delay,
		operation: cfg.Operation,
		logger:    logger,
	}, nil
}

// Engage returns a Timer that runs save delay after the last Restart.
func Engage(save func(), delay time.Duration) (*Timer, error) {
	return New(Config{Delay: delay, Operation: save})
}

// Delay returns the configured delay.
func (t *Timer) Delay() time.Duration { return t.delay }

// Restart starts the clock, or starts it over if it is already running.
func (t *Timer) Restart() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.generation++
	gen := t.generation
	t.timer = time.AfterFunc(t.delay, func() { t.fire(gen) })
}

// Stop cancels a pending run. It reports whether one was pending.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++
	if t.timer == nil {
		return false
	}
	stopped := t.timer.Stop()
	t.timer = nil
	return stopped
}

func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	// A Restart or Stop after this callback was scheduled supersedes it.
	if gen != t.generation {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()

	t.logger.Debug("autosave fired", slog.Duration("delay", t.delay))
	t.operation()
}
