//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"feedboard/internal"
	"feedboard/internal/configsync"
	"feedboard/internal/controllers"
	"feedboard/internal/credstore"
	"feedboard/internal/history"
	"feedboard/internal/providers"
	"feedboard/internal/remote"
	"feedboard/internal/session"
	"feedboard/internal/stats"
	"feedboard/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewCacheProvider,
		providers.NewMetricsProvider,

		credstore.NewStore,
		remote.NewClient,
		session.NewManager,
		history.NewZstdCompressor,
		history.NewJournal,
		wire.Bind(new(configsync.Recorder), new(*history.Journal)),
		configsync.NewSynchronizer,
		stats.NewPoller,
		controllers.NewDashboardController,
		controllers.NewWsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
