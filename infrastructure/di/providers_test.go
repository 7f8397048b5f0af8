package di

import (
	"testing"
	"time"

	"chatmemo/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func TestProvideLoggerHonorsConfiguredLevel(t *testing.T) {
	// Development defaults to debug; an explicit LOG_LEVEL overrides it.
	cfg := &config.Config{Environment: "development", LogLevel: "error"}

	logger, err := ProvideLogger(cfg)

	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestProvideLoggerInvalidLevelKeepsDefault(t *testing.T) {
	cfg := &config.Config{Environment: "development", LogLevel: "chatty"}

	logger, err := ProvideLogger(cfg)

	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

type mapStore struct {
	data map[string]string
}

func (s *mapStore) Read(key string) (string, error) { return s.data[key], nil }
func (s *mapStore) Write(key, value string) error   { s.data[key] = value; return nil }
func (s *mapStore) Erase(key string) error          { delete(s.data, key); return nil }

type stubViewport struct {
	scrollTop     float64
	contentHeight float64
}

func (v *stubViewport) ScrollTop() float64                          { return v.scrollTop }
func (v *stubViewport) SetScrollTop(top float64)                    { v.scrollTop = top }
func (v *stubViewport) ContentHeight() float64                      { return v.contentHeight }
func (v *stubViewport) LastVisibleMessage() (string, float64, bool) { return "", 0, false }
func (v *stubViewport) MessageTop(string) (float64, bool)           { return 0, false }

func TestProvideScrollTrackerFactoryUsesConfiguredSettle(t *testing.T) {
	cfg := &config.Config{Environment: "development", LogLevel: "error", ScrollSettle: 20 * time.Millisecond}
	logger := zap.NewNop()
	store := &mapStore{data: map[string]string{}}

	factory := ProvideScrollTrackerFactory(store, cfg, logger)
	viewport := &stubViewport{contentHeight: 640}
	tracker := factory(viewport, "chat")
	require.NotNil(t, tracker)

	// With no saved state the settle-delayed restore lands at the bottom.
	tracker.Mount("/memo/1")
	assert.Zero(t, viewport.scrollTop)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 640.0, viewport.scrollTop)
}
