//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/advisor-assistant/internal/bootstrap"
	"github.com/yanqian/advisor-assistant/internal/domain/chat"
	"github.com/yanqian/advisor-assistant/internal/domain/faq"
	"github.com/yanqian/advisor-assistant/internal/domain/plan"
	"github.com/yanqian/advisor-assistant/internal/infra/config"
	httpiface "github.com/yanqian/advisor-assistant/internal/interface/http"
	"github.com/yanqian/advisor-assistant/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideFAQConfig,
		provideChatConfig,
		providePlanConfig,
		provideTableDecoder,
		provideCorpusSource,
		provideCatalog,
		provideCorpusWatcher,
		provideValkeyClient,
		provideFAQStore,
		provideChatStore,
		faq.NewService,
		chat.NewService,
		plan.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
