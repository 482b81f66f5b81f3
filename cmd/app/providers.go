package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/advisor-assistant/internal/domain/chat"
	"github.com/yanqian/advisor-assistant/internal/domain/faq"
	"github.com/yanqian/advisor-assistant/internal/domain/plan"
	"github.com/yanqian/advisor-assistant/internal/infra/chatstore"
	"github.com/yanqian/advisor-assistant/internal/infra/config"
	"github.com/yanqian/advisor-assistant/internal/infra/corpuswatch"
	"github.com/yanqian/advisor-assistant/internal/infra/faqsource"
	"github.com/yanqian/advisor-assistant/internal/infra/faqstore"
	"github.com/yanqian/advisor-assistant/pkg/tabular"
)

const initialLoadTimeout = 10 * time.Second

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		Threshold:      cfg.FAQ.Threshold,
		TopK:           cfg.FAQ.TopK,
		TrendingLimit:  cfg.FAQ.TrendingLimit,
		MaxImportBytes: cfg.FAQ.MaxImportBytes,
	}
}

func provideChatConfig(cfg *config.Config) chat.Config {
	return chat.Config{HistoryLimit: cfg.Chat.HistoryLimit}
}

func providePlanConfig(cfg *config.Config) plan.Config {
	return plan.Config{
		MinCredits:     cfg.Plan.MinCredits,
		CoreMapPath:    cfg.Plan.CoreMapPath,
		PoliciesPath:   cfg.Plan.PoliciesPath,
		ContactsPath:   cfg.Plan.ContactsPath,
		RulesVersion:   cfg.Plan.RulesVersion,
		MaxUploadBytes: cfg.Plan.MaxUploadBytes,
	}
}

func provideTableDecoder() faq.TableDecoder {
	return tabular.NewDecoder()
}

// provideCorpusSource picks the configured corpus source. A source that cannot
// be constructed is replaced by nil, which the catalog treats as "use the
// built-in entries".
func provideCorpusSource(cfg *config.Config, logger *slog.Logger) faq.Source {
	switch cfg.FAQ.Source.Kind {
	case config.SourcePostgres:
		pool, err := newPostgresPool(cfg.Postgres, logger)
		if err != nil {
			logger.Error("postgres corpus source unavailable, using built-in entries", "error", err)
			return nil
		}
		logger.Info("faq postgres corpus source enabled", "table", cfg.FAQ.Source.Table)
		return faqsource.NewPostgresSource(pool, cfg.FAQ.Source.Table)
	case config.SourceObject:
		src, err := faqsource.NewObjectSource(faqsource.ObjectOptions{
			Endpoint:  cfg.ObjectStorage.Endpoint,
			AccessKey: cfg.ObjectStorage.AccessKey,
			SecretKey: cfg.ObjectStorage.SecretKey,
			Bucket:    cfg.ObjectStorage.Bucket,
			Region:    cfg.ObjectStorage.Region,
			Key:       cfg.FAQ.Source.ObjectKey,
		})
		if err != nil {
			logger.Error("object corpus source unavailable, using built-in entries", "error", err)
			return nil
		}
		logger.Info("faq object corpus source enabled", "bucket", cfg.ObjectStorage.Bucket, "key", cfg.FAQ.Source.ObjectKey)
		return src
	default:
		return faqsource.NewFileSource(cfg.FAQ.Source.Path)
	}
}

func newPostgresPool(cfg config.PostgresConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("postgres pool ready", "maxConns", poolConfig.MaxConns)
	return pool, nil
}

// provideCatalog builds the catalog and performs the initial load.
func provideCatalog(source faq.Source, logger *slog.Logger) *faq.Catalog {
	catalog := faq.NewCatalog(source, logger)
	ctx, cancel := context.WithTimeout(context.Background(), initialLoadTimeout)
	defer cancel()
	result := catalog.Reload(ctx)
	logger.Info("faq corpus loaded", "source", result.Source, "entries", result.Entries, "fallback", result.Fallback)
	return catalog
}

func provideCorpusWatcher(cfg *config.Config, catalog *faq.Catalog, logger *slog.Logger) *corpuswatch.Watcher {
	if !cfg.FAQ.Watch || cfg.FAQ.Source.Kind != config.SourceFile {
		return nil
	}
	return corpuswatch.New(cfg.FAQ.Source.Path, cfg.FAQ.Debounce, func(ctx context.Context) {
		result := catalog.Reload(ctx)
		logger.Info("faq corpus reloaded from watch", "entries", result.Entries, "fallback", result.Fallback)
	}, logger)
}

// provideValkeyClient returns nil when Valkey is disabled or unreachable; the
// stores then fall back to process memory.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) valkey.Client {
	if !cfg.Valkey.Enabled {
		return nil
	}
	opt, err := buildValkeyOptions(cfg.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory stores", "error", err)
		return nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory stores", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory stores", "error", err)
		client.Close()
		return nil
	}
	logger.Info("valkey enabled", "addr", cfg.Valkey.Addr)
	return client
}

func provideFAQStore(client valkey.Client) faq.Store {
	if client == nil {
		return faqstore.NewMemoryStore()
	}
	return faqstore.NewValkeyStore(client, "faq")
}

func provideChatStore(cfg *config.Config, client valkey.Client) chat.Store {
	if client == nil {
		return chatstore.NewMemoryStore(cfg.Chat.TTL)
	}
	return chatstore.NewValkeyStore(client, "chat", cfg.Chat.TTL)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
