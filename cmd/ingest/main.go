package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nyayasahayak/legal-assistant/internal/bootstrap"
	"github.com/nyayasahayak/legal-assistant/internal/config"
	"github.com/nyayasahayak/legal-assistant/internal/observability/metrics"
)

const serviceName = "ingest"

func main() {
	rebuild := flag.Bool("rebuild", false, "rebuild the index even when a persisted one exists")
	flag.Parse()

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, bootstrap.Options{
		Service:        serviceName,
		IngestObserver: metrics.NewIngestMetrics(serviceName),
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	if app.Store.Exists() && !*rebuild {
		app.Logger.Info("index already exists, nothing to do", "dir", cfg.IndexDir, "hint", "pass -rebuild to force")
		return
	}

	start := time.Now()
	index, err := app.Ingest.BuildIndex(ctx)
	if err != nil {
		app.Logger.Error("index build failed", "error", err)
		os.Exit(1)
	}

	if err := app.Store.Save(ctx, index); err != nil {
		app.Logger.Error("index save failed", "dir", cfg.IndexDir, "error", err)
		os.Exit(1)
	}

	app.Logger.Info("index written",
		"dir", cfg.IndexDir,
		"chunks", index.Size(),
		"dimensions", index.Dimensions(),
		"model", index.ModelID(),
		"took", time.Since(start).Round(time.Millisecond).String(),
	)
}
