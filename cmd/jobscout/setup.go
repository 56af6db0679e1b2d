package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jmatsuda/jobscout/internal/config"
	"github.com/jmatsuda/jobscout/internal/crawl"
	"github.com/jmatsuda/jobscout/internal/fetch"
	"github.com/jmatsuda/jobscout/internal/logging"
	"github.com/jmatsuda/jobscout/internal/pipeline"
	"github.com/jmatsuda/jobscout/internal/queue"
	"github.com/jmatsuda/jobscout/internal/scraper"
	"github.com/jmatsuda/jobscout/internal/store"
)

// app bundles the wired-up components a command needs, with a single Close.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	service *pipeline.Service

	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.log.Sync()
}

// loadConfig resolves the effective configuration: file (if given), then
// defaults, then environment overlays.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded.MergeWithDefaults(config.Default())
	}
	cfg.FromEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildApp wires the store, queue and sources from config. Without a
// DATABASE_URL it falls back to the in-memory store; without a REDIS_ADDR to
// the in-process queue. That keeps mock-only runs free of infrastructure.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}

	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		st = pg
		log.Info("using postgres store")
	} else {
		st = store.NewMemory()
		log.Info("using in-memory store")
	}

	var q queue.Queue
	if cfg.RedisAddr != "" {
		rq, err := queue.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rq.Close() })
		q = rq
		log.Info("using redis queue", zap.String("addr", cfg.RedisAddr))
	} else {
		q = queue.NewMemory(0)
		log.Info("using in-process queue")
	}

	sources, err := buildSources(cfg, log)
	if err != nil {
		return nil, err
	}

	a.service = pipeline.NewService(st, q, sources, log)
	return a, nil
}

// buildSources instantiates one adapter per configured source id.
func buildSources(cfg config.Config, log *zap.Logger) ([]scraper.Source, error) {
	client := fetch.NewClient(&fetch.Options{RequestDelay: cfg.RequestDelay()})

	var sources []scraper.Source
	for _, name := range cfg.Sources {
		switch name {
		case "mock":
			sources = append(sources, scraper.NewMock(1, log))
		case "schema":
			sources = append(sources, scraper.NewSchema(scraper.SchemaOptions{
				Seeds:  cfg.SchemaSeeds,
				Client: client,
				CrawlCfg: crawl.Config{
					MaxCareerPages: cfg.MaxCareerPages,
					MaxJobURLs:     cfg.MaxJobURLs,
					ATSDomains:     cfg.ATSDomains,
				},
				Logger: log,
			}))
		case "board":
			if cfg.BoardURL == "" {
				return nil, fmt.Errorf("source %q requires board_url", name)
			}
			sources = append(sources, scraper.NewBoard(scraper.BoardOptions{
				BaseURL:      cfg.BoardURL,
				Headless:     cfg.Headless,
				RequestDelay: cfg.RequestDelay(),
				Logger:       log,
			}))
		default:
			return nil, fmt.Errorf("unknown source %q", name)
		}
	}
	return sources, nil
}
