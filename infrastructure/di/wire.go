//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"chatmemo/application/notify"
	"chatmemo/application/services"
	appviewstate "chatmemo/application/viewstate"
	"chatmemo/infrastructure/config"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	Notifier       *notify.Notifier
	Memos          *services.MemoService
	Messages       *services.MessageService
	Search         *services.SearchService
	ViewState      appviewstate.Store
	ScrollTrackers ScrollTrackerFactory
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideRepositories,
	ProvideNotifier,
	ProvideMemoService,
	ProvideMessageService,
	ProvideSearchService,
	ProvideViewStateStore,
	ProvideScrollTrackerFactory,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
