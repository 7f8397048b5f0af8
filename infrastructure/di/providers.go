package di

import (
	"context"
	"fmt"

	"chatmemo/application/notify"
	"chatmemo/application/ports"
	"chatmemo/application/services"
	appviewstate "chatmemo/application/viewstate"
	"chatmemo/infrastructure/config"
	dynamostore "chatmemo/infrastructure/persistence/dynamodb"
	"chatmemo/infrastructure/persistence/memory"
	supabasestore "chatmemo/infrastructure/persistence/supabase"
	"chatmemo/infrastructure/viewstate"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// Repositories bundles the four persistence ports of one backend
type Repositories struct {
	Memos      ports.MemoRepository
	Tombstones ports.TombstoneRepository
	Messages   ports.MessageRepository
	History    ports.HistoryRepository
}

// ProvideLogger creates a new logger instance at the configured level
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = level
	}

	return zapCfg.Build()
}

// ProvideRepositories builds the persistence backend selected by
// STORE_BACKEND
func ProvideRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Repositories, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		store := memory.NewStore()
		return Repositories{
			Memos:      store.Memos(),
			Tombstones: store.Tombstones(),
			Messages:   store.Messages(),
			History:    store.History(),
		}, nil

	case config.StoreSupabase:
		store, err := supabasestore.Connect(cfg.SupabaseURL, cfg.SupabaseKey, logger)
		if err != nil {
			return Repositories{}, err
		}
		return Repositories{
			Memos:      store.Memos(),
			Tombstones: store.Tombstones(),
			Messages:   store.Messages(),
			History:    store.History(),
		}, nil

	case config.StoreDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.AWSRegion),
		)
		if err != nil {
			return Repositories{}, err
		}
		client := awsdynamodb.NewFromConfig(awsCfg)
		store := dynamostore.NewStore(client, cfg.DynamoDBTable, cfg.IndexName, cfg.GSI2IndexName, logger)
		return Repositories{
			Memos:      store.Memos(),
			Tombstones: store.Tombstones(),
			Messages:   store.Messages(),
			History:    store.History(),
		}, nil

	default:
		return Repositories{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// ProvideNotifier creates the transient user notice holder
func ProvideNotifier(cfg *config.Config, logger *zap.Logger) *notify.Notifier {
	return notify.New(cfg.NoticeTTL, logger)
}

// ProvideMemoService creates the memo lifecycle service
func ProvideMemoService(repos Repositories, cfg *config.Config, notifier *notify.Notifier, logger *zap.Logger) *services.MemoService {
	return services.NewMemoService(repos.Memos, repos.Tombstones, repos.Messages, cfg.UndoWindow, notifier, logger)
}

// ProvideMessageService creates the message lifecycle service
func ProvideMessageService(repos Repositories, memos *services.MemoService, cfg *config.Config, notifier *notify.Notifier, logger *zap.Logger) *services.MessageService {
	return services.NewMessageService(repos.Messages, repos.History, memos, cfg.UndoWindow, notifier, logger)
}

// ProvideSearchService creates the search service
func ProvideSearchService(repos Repositories, logger *zap.Logger) *services.SearchService {
	return services.NewSearchService(repos.Messages, logger)
}

// ProvideViewStateStore creates the on-disk view state store
func ProvideViewStateStore(cfg *config.Config) appviewstate.Store {
	return viewstate.NewDiskvStore(cfg.ViewStatePath)
}

// ScrollTrackerFactory builds a scroll tracker for one view. Viewport
// geometry belongs to the embedding client, so trackers are created per
// viewport rather than held in the container.
type ScrollTrackerFactory func(viewport appviewstate.Viewport, viewID string) *appviewstate.ScrollTracker

// ProvideScrollTrackerFactory binds the persisted view state and the
// configured settle delay into scroll tracker construction
func ProvideScrollTrackerFactory(store appviewstate.Store, cfg *config.Config, logger *zap.Logger) ScrollTrackerFactory {
	return func(viewport appviewstate.Viewport, viewID string) *appviewstate.ScrollTracker {
		return appviewstate.NewScrollTracker(store, viewport, viewID, cfg.ScrollSettle, logger)
	}
}
