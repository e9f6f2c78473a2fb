package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"trafficreplay/internal/cache"
	"trafficreplay/internal/config"
	"trafficreplay/internal/handler"
	"trafficreplay/internal/middleware"
	"trafficreplay/internal/pipeline"
	"trafficreplay/internal/poller"
	"trafficreplay/internal/reference"
	"trafficreplay/internal/store"
	"trafficreplay/pkg/vatsimapi"
)

func main() {
	eventPath := flag.String("config", "", "Path to the event YAML config (overrides EVENT_CONFIG)")
	consolidateOnly := flag.Bool("consolidate-only", false, "Skip polling and rebuild the event capture from existing files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *eventPath != "" {
		cfg.EventConfigPath = *eventPath
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     cfg.LogLevel,
		AddSource: true,
	})).With("run_id", uuid.New().String())
	slog.SetDefault(logger)

	if err := run(cfg, *consolidateOnly, logger); err != nil {
		logger.Error("capture run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(cfg *config.Config, consolidateOnly bool, logger *slog.Logger) error {
	airports, err := reference.LoadAirports(cfg.AirportsCSVPath)
	if err != nil {
		return fmt.Errorf("loading airports CSV %s: %w", cfg.AirportsCSVPath, err)
	}
	logger.Debug("loaded airports", "count", len(airports))

	event, err := config.LoadEvent(cfg.EventConfigPath)
	if err != nil {
		return err
	}

	eventAirports, err := config.ResolveAirports(event, airports)
	if err != nil {
		return err
	}

	logger.Info("starting traffic capture",
		"event", event.Name,
		"slug", event.Slug(),
		"airports", event.Airports,
		"advertised_start", event.AdvertisedStartTime,
		"advertised_end", event.AdvertisedEndTime,
		"consolidate_only", consolidateOnly,
	)

	opts := pipeline.Options{
		ChannelCapacity: cfg.ChannelCapacity,
		RangeNM:         cfg.CaptureRangeNM,
		PreRoll:         cfg.PreRoll,
		PostRoll:        cfg.PostRoll,
		PollerOptions: []poller.Option{
			poller.WithCadence(cfg.PollCadence, cfg.PollMaxCredit),
			poller.WithRetryDelay(cfg.RetryDelay),
		},
	}

	if cfg.RedisEnabled {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			logger.Warn("redis unavailable, captures will not be published", "error", err)
		} else {
			defer redisCache.Close()
			opts.Publisher = cache.NewPublisher(redisCache, cfg.CacheTTL, logger)
		}
	}

	captureStore := store.New(store.Layout{Root: cfg.OutputRoot, Slug: event.Slug()})
	apiClient := vatsimapi.New(cfg.VATSIMStatusURL, cfg.VATSIMDataURL, cfg.RequestTimeout)
	p := pipeline.New(apiClient, captureStore, event, eventAirports, opts, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if consolidateOnly {
		return p.Consolidate(ctx)
	}

	var srv *http.Server
	if cfg.HTTPEnabled {
		limiter := middleware.NewRateLimiter(ctx, cfg.RateLimitPerWindow, cfg.RateLimitWindow, cfg.RateLimitWhitelist, logger)
		mux := handler.NewMux(handler.NewHealthHandler(p))
		srv = &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      limiter.Middleware(handler.GzipMiddleware(mux)),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
		go func() {
			logger.Info("starting HTTP server", "addr", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "error", err)
			}
		}()
	}

	if err := p.Capture(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		logger.Info("shutdown signal received, consolidating captured files")
	}

	// Consolidation must finish even when capture was interrupted.
	if err := p.Consolidate(context.WithoutCancel(ctx)); err != nil {
		return err
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
	}
	return nil
}
