package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/huashen/exchange-core/internal/adapter/cache"
	"github.com/huashen/exchange-core/internal/adapter/in_memory"
	"github.com/huashen/exchange-core/internal/adapter/pg"
	api "github.com/huashen/exchange-core/internal/api/http"
	"github.com/huashen/exchange-core/internal/config"
	"github.com/huashen/exchange-core/internal/engine"
	"github.com/huashen/exchange-core/internal/port"
)

func main() {
	cfg := config.MustLoad()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		journal port.Journal
		repo    port.Repository
	)
	if cfg.Database.DSN != "" {
		pgRepo, err := pg.NewPgRepo(ctx, cfg.Database.DSN)
		if err != nil {
			log.Error("failed to connect to Postgres", "err", err)
			os.Exit(1)
		}
		defer pgRepo.Close(ctx)
		journal, repo = pgRepo, pgRepo
	} else {
		log.Warn("no database configured, using in-memory journal")
		journal, repo = in_memory.NewJournal(), in_memory.NewMemoryRepo()
	}

	var bookCache port.Cache
	if cfg.Redis.Addr != "" {
		bookCache = cache.NewRedisCache(
			cfg.Redis.Addr,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
	} else {
		bookCache = in_memory.NewCache()
	}

	eng := engine.NewEngine(journal, repo, bookCache, cfg.Engine.CommandBuffer, log)
	eng.Start(ctx)

	if len(cfg.Engine.Symbols) > 0 {
		if err := eng.LoadOpenOrders(ctx, cfg.Engine.Symbols); err != nil {
			log.Error("failed to restore open orders", "err", err)
			os.Exit(1)
		}
	}

	server := api.NewHTTPServer(eng, cfg.Engine.PriceScale, cfg.Engine.QtyScale)
	log.Info("starting HTTP server", "addr", cfg.HTTPServer.Addr)
	if err := server.Run(cfg.HTTPServer.Addr); err != nil {
		log.Error("HTTP server failed", "err", err)
		os.Exit(1)
	}
}
