// Package main provides the game7 server binary: the combat engine behind a
// JSON HTTP API, with optional PostgreSQL save slots.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/game7/internal/api"
	"github.com/cory-johannsen/game7/internal/config"
	"github.com/cory-johannsen/game7/internal/game/dice"
	"github.com/cory-johannsen/game7/internal/game/ruleset"
	"github.com/cory-johannsen/game7/internal/game/team"
	"github.com/cory-johannsen/game7/internal/gameserver"
	"github.com/cory-johannsen/game7/internal/observability"
	"github.com/cory-johannsen/game7/internal/server"
	"github.com/cory-johannsen/game7/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "game7d")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := dice.NewSource(cfg.Engine.Seed)
	if cfg.Engine.LogDraws {
		src = dice.NewLoggedSource(src, logger)
	}

	catStart := time.Now()
	cat := ruleset.MustLoad(cfg.Engine.CatalogDir)
	logger.Info("catalog loaded",
		zap.Int("archetypes", len(cat.Archetypes())),
		zap.String("dir", cfg.Engine.CatalogDir),
		zap.Duration("elapsed", time.Since(catStart)),
	)

	window := team.ReviveWindow{Min: cfg.Engine.ReviveMinSeconds, Max: cfg.Engine.ReviveMaxSeconds}
	engine, err := team.New(cat, src, window, logger)
	if err != nil {
		logger.Fatal("creating engine", zap.Error(err))
	}
	game := gameserver.NewGame(engine, logger)

	var (
		saves api.SaveStore
		db    api.HealthChecker
	)
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		if err := pool.Health(ctx); err != nil {
			logger.Warn("save database not ready", zap.Error(err))
		}
		saves = pool.Saves()
		db = pool
	} else {
		logger.Info("save slots disabled")
	}

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.NewHandler(game, saves, db, logger), logger)
	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("tick", gameserver.NewTickLoop(game, cfg.Engine.TickInterval, logger))
	lifecycle.Add("http", server.NewHTTPService(httpSrv, cfg.Server.ShutdownTimeout, logger))

	logger.Info("game7 server initialized",
		zap.String("http_addr", cfg.Server.Addr()),
		zap.Int64("seed", cfg.Engine.Seed),
		zap.Duration("tick_interval", cfg.Engine.TickInterval),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server exited with error", zap.Error(err))
	}
}
