// Package main provides a database migration runner for the save-slot schema.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cory-johannsen/game7/internal/config"
	"github.com/cory-johannsen/game7/internal/observability"
	"github.com/cory-johannsen/game7/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	v := config.Defaults()
	v.SetConfigFile(*configPath)
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("reading config: %v", err)
	}

	var logCfg config.LoggingConfig
	if err := v.UnmarshalKey("logging", &logCfg); err != nil {
		log.Fatalf("parsing logging config: %v", err)
	}
	logger, err := observability.NewLogger(logCfg, "migrate")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	dbCfg, err := databaseConfig(v)
	if err != nil {
		logger.Fatal("parsing database config", zap.Error(err))
	}

	res, err := postgres.Migrate(dbCfg.DSN(), postgres.Direction(*direction), *steps)
	if err != nil {
		logger.Fatal("migration failed",
			zap.String("direction", *direction),
			zap.Int("steps", *steps),
			zap.Error(err),
		)
	}

	logger.Info("migration complete",
		zap.String("direction", *direction),
		zap.Uint("version", res.Version),
		zap.Bool("dirty", res.Dirty),
		zap.Bool("no_change", res.NoChange),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func databaseConfig(v *viper.Viper) (config.DatabaseConfig, error) {
	var dbCfg config.DatabaseConfig
	if err := v.UnmarshalKey("database", &dbCfg); err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("unmarshalling database section: %w", err)
	}
	return dbCfg, nil
}
