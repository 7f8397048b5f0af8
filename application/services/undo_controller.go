package services

import (
	"context"
	"sync"
	"time"

	pkgerrors "chatmemo/pkg/errors"

	"go.uber.org/zap"
)

// DefaultUndoWindow is how long a deletion stays undoable.
const DefaultUndoWindow = 5 * time.Second

// RestoreFunc reverses a deletion from its snapshot.
type RestoreFunc[T any] func(ctx context.Context, snapshot T) error

// UndoController keeps at most one pending deletion of an entity class
// undoable for a fixed window. Registering a new deletion while one is
// pending silently supersedes the prior slot: its timer is cancelled and
// its snapshot discarded, while the underlying soft delete stays
// committed. After the window elapses the slot clears itself and the
// deletion becomes permanent as far as the controller is concerned;
// expunging the stored data is a collaborator's concern.
type UndoController[T any] struct {
	mu       sync.Mutex
	window   time.Duration
	snapshot T
	restore  RestoreFunc[T]
	pending  bool
	gen      uint64
	timer    *time.Timer
	logger   *zap.Logger
}

// NewUndoController creates a controller. A non-positive window falls
// back to DefaultUndoWindow.
func NewUndoController[T any](window time.Duration, logger *zap.Logger) *UndoController[T] {
	if window <= 0 {
		window = DefaultUndoWindow
	}
	return &UndoController[T]{window: window, logger: logger}
}

// Register stores the deletion snapshot and restarts the undo window.
func (c *UndoController[T]) Register(snapshot T, restore RestoreFunc[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = snapshot
	c.restore = restore
	c.pending = true
	c.gen++
	gen := c.gen

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.window, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// A later registration owns the slot now.
		if c.gen == gen {
			c.clearLocked()
			c.logger.Debug("undo window elapsed, deletion is permanent")
		}
	})
}

// Undo restores the pending deletion. With no slot pending it returns a
// validation error; a failed restore propagates to the caller, who
// reconciles the local view to the actually-deleted state. The slot is
// cleared either way.
func (c *UndoController[T]) Undo(ctx context.Context) error {
	c.mu.Lock()
	if !c.pending {
		c.mu.Unlock()
		return pkgerrors.NewValidationError("no deletion pending undo")
	}
	snapshot := c.snapshot
	restore := c.restore
	c.clearLocked()
	c.mu.Unlock()

	return restore(ctx, snapshot)
}

// Pending reports whether a deletion is currently undoable.
func (c *UndoController[T]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Clear drops the slot and cancels its timer, e.g. on unmount or logout.
func (c *UndoController[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *UndoController[T]) clearLocked() {
	var zero T
	c.snapshot = zero
	c.restore = nil
	c.pending = false
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
