package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/nyayasahayak/legal-assistant/internal/adapters/http"
	"github.com/nyayasahayak/legal-assistant/internal/bootstrap"
	"github.com/nyayasahayak/legal-assistant/internal/config"
	"github.com/nyayasahayak/legal-assistant/internal/observability/metrics"
)

const serviceName = "api"

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, bootstrap.Options{Service: serviceName, Generation: true})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	if err := app.Pipeline.Start(ctx); err != nil {
		app.Logger.Error("pipeline startup failed", "error", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	router := httpadapter.NewRouter(app.Pipeline, httpMetrics, app.Logger, httpadapter.RouterOptions{
		Service:        serviceName,
		RateLimitRPS:   float64(cfg.APIRateLimitRPS),
		RateLimitBurst: cfg.APIRateLimitBurst,
		MaxConcurrent:  cfg.APIMaxConcurrent,
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		app.Logger.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("api shutdown error", "error", err)
	}
}
