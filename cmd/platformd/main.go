package main

import (
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/audit"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/engine"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/ingest"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/platform"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/server"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

// #region main
func main() {
	dbPath := envOr("FARMSENSE_DB", "farmsense_audit.db")
	addr := envOr("FARMSENSE_ADDR", ":8000")
	thresholdsPath := os.Getenv("FARMSENSE_THRESHOLDS")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	cat := thresholds.Default()
	if thresholdsPath != "" {
		cat, err = thresholds.Load(thresholdsPath)
		if err != nil {
			logger.Fatal("failed to load thresholds", zap.Error(err))
		}
		logger.Info("threshold overlay loaded", zap.String("path", thresholdsPath))
	}

	store, err := audit.NewSQLStore(dbPath)
	if err != nil {
		logger.Fatal("failed to open audit store", zap.Error(err))
	}
	defer store.Close()

	registry := engine.NewRegistry(cat)
	source := ingest.NewClient(ingest.DefaultConfig())
	p := platform.New(registry, store, source, logger)

	logger.Info("platform ready", zap.String("db", dbPath), zap.String("addr", addr))
	if err := server.New(p, logger).Router().Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// #endregion main

// #region env
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// #endregion env
