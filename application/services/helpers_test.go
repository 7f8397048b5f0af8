package services

import (
	"time"

	"chatmemo/application/notify"

	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func testNotifier() *notify.Notifier {
	return notify.New(time.Minute, zap.NewNop())
}
