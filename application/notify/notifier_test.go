package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go.uber.org/zap"
)

func TestNotifier_PublishAndCurrent(t *testing.T) {
	n := New(time.Minute, zap.NewNop())

	assert.Empty(t, n.Current())

	n.Publish("Failed to load chat memos")

	assert.Equal(t, "Failed to load chat memos", n.Current())
}

func TestNotifier_NoticeExpires(t *testing.T) {
	n := New(20*time.Millisecond, zap.NewNop())

	n.Publish("transient")
	assert.Equal(t, "transient", n.Current())

	time.Sleep(60 * time.Millisecond)

	assert.Empty(t, n.Current())
}

func TestNotifier_NewNoticeRestartsExpiry(t *testing.T) {
	n := New(50*time.Millisecond, zap.NewNop())

	n.Publish("first")
	time.Sleep(30 * time.Millisecond)
	n.Publish("second")
	time.Sleep(30 * time.Millisecond)

	// The first notice's timer has elapsed but the second superseded it.
	assert.Equal(t, "second", n.Current())

	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, n.Current())
}

func TestNotifier_Reset(t *testing.T) {
	n := New(time.Minute, zap.NewNop())

	n.Publish("pending")
	n.Reset()

	assert.Empty(t, n.Current())
}

func TestNotifier_PublishAfterReset(t *testing.T) {
	n := New(time.Minute, zap.NewNop())

	n.Publish("first")
	n.Reset()
	n.Publish("second")

	assert.Equal(t, "second", n.Current())
}

func TestNotifier_ZeroTTLUsesDefault(t *testing.T) {
	n := New(0, zap.NewNop())

	assert.Equal(t, DefaultTTL, n.ttl)
}
