// Package viewstate preserves per-view UI state across navigations:
// scroll positions keyed by view and route, and the identity of the
// last edited memo.
package viewstate

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSettleDelay is how long a freshly mounted view is given to lay
// out its content before its scroll position is restored.
const DefaultSettleDelay = 100 * time.Millisecond

const lastEditedMemoKey = "last-edited-memo-id"

// Position is a saved scroll position. ElementID anchors it to the last
// visible message so the view survives content height changes; Offset is
// how far that element's top sat above the viewport top at save time.
type Position struct {
	ScrollTop float64 `json:"scrollTop"`
	ElementID string  `json:"elementId"`
	Offset    float64 `json:"offset"`
}

// Store persists view state between sessions
type Store interface {
	Read(key string) (string, error)
	Write(key, value string) error
	Erase(key string) error
}

// Viewport is the scrollable container being tracked. MessageTop
// reports an element's top relative to the content origin, and ok=false
// when the element is no longer present.
type Viewport interface {
	ScrollTop() float64
	SetScrollTop(top float64)
	ContentHeight() float64
	LastVisibleMessage() (id string, offset float64, ok bool)
	MessageTop(id string) (top float64, ok bool)
}

// ScrollTracker saves and restores the scroll position of one view.
// Saves are suppressed during navigation so the outgoing view's final
// frames do not clobber the position recorded at navigation start.
type ScrollTracker struct {
	store       Store
	viewport    Viewport
	viewID      string
	settleDelay time.Duration
	logger      *zap.Logger

	mu         sync.Mutex
	route      string
	navigating bool
	settle     *time.Timer
}

// NewScrollTracker creates a tracker for one scrollable view
func NewScrollTracker(store Store, viewport Viewport, viewID string, settleDelay time.Duration, logger *zap.Logger) *ScrollTracker {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &ScrollTracker{
		store:       store,
		viewport:    viewport,
		viewID:      viewID,
		settleDelay: settleDelay,
		logger:      logger,
	}
}

func (t *ScrollTracker) key(route string) string {
	return fmt.Sprintf("scroll-position-%s-%s", t.viewID, route)
}

// HandleScroll records the current position. Calls arriving while a
// navigation is in flight are dropped.
func (t *ScrollTracker) HandleScroll() {
	t.mu.Lock()
	if t.navigating {
		t.mu.Unlock()
		return
	}
	route := t.route
	t.mu.Unlock()

	t.Save(route)
}

// Save captures the viewport's position under the given route
func (t *ScrollTracker) Save(route string) {
	pos := Position{ScrollTop: t.viewport.ScrollTop()}
	if id, offset, ok := t.viewport.LastVisibleMessage(); ok {
		pos.ElementID = id
		pos.Offset = offset
	}

	raw, err := json.Marshal(pos)
	if err != nil {
		t.logger.Warn("scroll position encode failed", zap.Error(err))
		return
	}
	if err := t.store.Write(t.key(route), string(raw)); err != nil {
		t.logger.Warn("scroll position save failed", zap.String("route", route), zap.Error(err))
	}
}

// BeginNavigation saves the current position and suppresses further
// saves until the next Mount.
func (t *ScrollTracker) BeginNavigation() {
	t.mu.Lock()
	route := t.route
	t.navigating = true
	t.mu.Unlock()

	if route != "" {
		t.Save(route)
	}
}

// Mount activates the tracker for a route. Restoration is deferred by
// the settle delay so the view has rendered its content; until then
// saves stay suppressed.
func (t *ScrollTracker) Mount(route string) {
	t.mu.Lock()
	t.route = route
	t.navigating = true
	if t.settle != nil {
		t.settle.Stop()
	}
	t.settle = time.AfterFunc(t.settleDelay, func() {
		t.Restore(route)
		t.mu.Lock()
		t.navigating = false
		t.mu.Unlock()
	})
	t.mu.Unlock()
}

// Restore moves the viewport back to the saved position for the route.
// When the anchor element still exists the position is recomputed from
// its current top, absorbing content height changes above it; otherwise
// the raw offset is used. With no saved state the view scrolls to the
// bottom, the natural resting point of a chat view.
func (t *ScrollTracker) Restore(route string) {
	raw, err := t.store.Read(t.key(route))
	if err != nil || raw == "" {
		t.scrollToBottom()
		return
	}

	var pos Position
	if err := json.Unmarshal([]byte(raw), &pos); err != nil {
		t.logger.Warn("scroll position decode failed", zap.String("route", route), zap.Error(err))
		t.scrollToBottom()
		return
	}

	if pos.ElementID != "" {
		if top, ok := t.viewport.MessageTop(pos.ElementID); ok {
			t.viewport.SetScrollTop(top - pos.Offset)
			return
		}
	}
	t.viewport.SetScrollTop(pos.ScrollTop)
}

// Unmount saves the outgoing view's position and cancels any pending
// restoration.
func (t *ScrollTracker) Unmount() {
	t.mu.Lock()
	route := t.route
	if t.settle != nil {
		t.settle.Stop()
		t.settle = nil
	}
	t.mu.Unlock()

	if route != "" {
		t.Save(route)
	}
}

// Forget drops the saved position for a route
func (t *ScrollTracker) Forget(route string) {
	if err := t.store.Erase(t.key(route)); err != nil {
		t.logger.Warn("scroll position erase failed", zap.String("route", route), zap.Error(err))
	}
}

func (t *ScrollTracker) scrollToBottom() {
	t.viewport.SetScrollTop(t.viewport.ContentHeight())
}

// LastEditedMemo returns the remembered memo ID, or "" when none is set
func LastEditedMemo(store Store) string {
	id, err := store.Read(lastEditedMemoKey)
	if err != nil {
		return ""
	}
	return id
}

// RememberLastEditedMemo records the memo the user edited most recently
func RememberLastEditedMemo(store Store, memoID string) error {
	if memoID == "" {
		return store.Erase(lastEditedMemoKey)
	}
	return store.Write(lastEditedMemoKey, memoID)
}
