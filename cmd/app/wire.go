//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/playlist-recommender/internal/bootstrap"
	"github.com/yanqian/playlist-recommender/internal/domain/auth"
	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
	"github.com/yanqian/playlist-recommender/internal/infra/config"
	httpiface "github.com/yanqian/playlist-recommender/internal/interface/http"
	"github.com/yanqian/playlist-recommender/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRecommendationConfig,
		provideMapper,
		provideValkey,
		provideTimeframeStore,
		provideSearchCache,
		provideTimeframeConfig,
		provideWeatherProvider,
		provideHolidayProvider,
		provideCatalog,
		provideAuthConfig,
		recommendation.NewService,
		auth.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
