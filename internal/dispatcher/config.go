package dispatcher

import (
	"context"
	"fmt"
	"time"
)

// Config controls how the dispatcher runs handlers.
type Config struct {
	// EnableMetrics records per-action counts and timings.
	EnableMetrics bool

	// RecoverFromPanic turns a panicking handler into an error result.
	RecoverFromPanic bool

	// DefaultTimeout is the deadline put on each dispatch's context.
	// Zero means none.
	DefaultTimeout time.Duration

	// MaxRepeatCount caps Action.Count. Zero means no cap.
	MaxRepeatCount int
}

// DefaultConfig recovers panics and caps counts at 100.
func DefaultConfig() Config {
	return Config{
		RecoverFromPanic: true,
		MaxRepeatCount:   100,
	}
}

// Validate rejects negative limits.
func (c Config) Validate() error {
	if c.DefaultTimeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, c.DefaultTimeout)
	}
	if c.MaxRepeatCount < 0 {
		return fmt.Errorf("%w: negative max repeat count %d", ErrInvalidConfig, c.MaxRepeatCount)
	}
	return nil
}

// WithMetrics enables metrics.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery sets RecoverFromPanic.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithTimeout sets DefaultTimeout.
func (c Config) WithTimeout(timeout time.Duration) Config {
	c.DefaultTimeout = timeout
	return c
}

// WithMaxRepeatCount sets MaxRepeatCount.
func (c Config) WithMaxRepeatCount(n int) Config {
	c.MaxRepeatCount = n
	return c
}

// repeatCount normalizes a requested count: at least one, at most
// MaxRepeatCount.
func (c Config) repeatCount(requested int) int {
	n := max(requested, 1)
	if c.MaxRepeatCount > 0 {
		n = min(n, c.MaxRepeatCount)
	}
	return n
}

// deadline applies DefaultTimeout to ctx.
func (c Config) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.DefaultTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.DefaultTimeout)
}
