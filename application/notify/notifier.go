// Package notify provides the user-facing error notification service.
// Failures in the synchronization core are never fatal: they surface as a
// single current notice that clears itself after a bounded lifetime.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is how long a notice stays visible before auto-clearing.
const DefaultTTL = 5 * time.Second

// Notifier holds at most one current notice. Publishing replaces the
// prior notice and restarts its expiry timer. Injected rather than kept
// as package state so tests can observe and reset it deterministically.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	message string
	gen     uint64
	timer   *time.Timer
	logger  *zap.Logger
}

// New creates a notifier. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration, logger *zap.Logger) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{ttl: ttl, logger: logger}
}

// Publish sets the current notice and schedules its expiry.
func (n *Notifier) Publish(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.message = message
	n.gen++
	gen := n.gen

	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.ttl, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		// A newer notice supersedes this expiry.
		if n.gen == gen {
			n.message = ""
		}
	})

	n.logger.Warn("user notice", zap.String("message", message))
}

// Current returns the visible notice, or "" when none is pending.
func (n *Notifier) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message
}

// Reset clears the notice and cancels the pending expiry.
func (n *Notifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = ""
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
