package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/lorelegacy/internal/config"
	"github.com/KirkDiggler/lorelegacy/internal/errors"
	"github.com/KirkDiggler/lorelegacy/internal/orchestrators/dice"
	"github.com/KirkDiggler/lorelegacy/internal/orchestrators/importer"
	"github.com/KirkDiggler/lorelegacy/internal/pkg/idgen"
	"github.com/KirkDiggler/lorelegacy/internal/redis"
	contentrepo "github.com/KirkDiggler/lorelegacy/internal/repositories/content"
	"github.com/KirkDiggler/lorelegacy/internal/rulebook"
)

const redisPingTimeout = 5 * time.Second

// services is the wired application for one command run
type services struct {
	repo     contentrepo.Repository
	importer importer.Service
	dice     dice.Service
	close    func() error
}

// openStore builds the content repository selected by store.backend
func openStore(ctx context.Context, cfg *config.Config) (contentrepo.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case config.BackendMemory:
		slog.WarnContext(ctx, "Using the memory store, records are lost when the process exits")
		return contentrepo.NewInMemory(nil), noop, nil

	case config.BackendRedis:
		client, err := redis.NewClient(cfg.Store.RedisAddr, &redis.Options{
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		if err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create redis client")
		}
		if err := redis.Ping(ctx, client, redisPingTimeout); err != nil {
			_ = client.Close()
			return nil, nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to reach redis at "+cfg.Store.RedisAddr)
		}
		repo, err := contentrepo.NewRedis(&contentrepo.RedisConfig{Client: client})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return repo, client.Close, nil

	case config.BackendSQLite:
		repo, err := contentrepo.OpenSQLite(ctx, &contentrepo.SQLiteConfig{Path: cfg.Store.SQLitePath})
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil

	default:
		return nil, nil, errors.InvalidArgumentf("unknown store backend %q", cfg.Store.Backend)
	}
}

func newServices(ctx context.Context, cfg *config.Config) (*services, error) {
	repo, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	imp, err := importer.NewOrchestrator(&importer.Config{
		Repository: repo,
		Extractor:  rulebook.NewExtractor(rulebook.NewFormatter(cfg.RulebookImages())),
	})
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	d, err := dice.NewOrchestrator(&dice.Config{
		Repository:  repo,
		IDGenerator: idgen.NewUUID("roll"),
	})
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	return &services{
		repo:     repo,
		importer: imp,
		dice:     d,
		close:    closeFn,
	}, nil
}
