package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"LotoSentinel/internal/bankroll"
	"LotoSentinel/internal/collector"
	"LotoSentinel/internal/config"
	"LotoSentinel/internal/metrics"
	"LotoSentinel/internal/model"
	"LotoSentinel/internal/notifier"
	"LotoSentinel/internal/recorder"
	"LotoSentinel/internal/scheduler"
)

func main() {
	// .env is optional, real deployments use the environment directly.
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fallbackLogger().Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		fallbackLogger().Fatal().Err(err).Msg("config validation")
	}

	logger := newLogger(cfg.Log)
	logger.Info().Str("config", cfgPath).Msg("LotoSentinel starting")

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.Data.LotoURL != "" || cfg.Data.FootballURL != "" {
		fetcher = collector.NewAPIFetcher(cfg.Data, logger)
	} else {
		fetcher = collector.NewCSVFetcher(cfg.Data.LotoCSV, cfg.Data.FootballCSV)
	}
	logger.Info().Str("source", fetcher.Name()).Msg("data source")

	// Init cache
	var cache collector.Cache
	switch cfg.Cache.Backend {
	case "redis":
		rc, err := collector.NewRedisCache(cfg.Cache.RedisAddr)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, falling back to in-memory cache")
			cache = collector.NewMemoryCache()
		} else {
			cache = rc
		}
	case "none":
		cache = nil
	default:
		cache = collector.NewMemoryCache()
	}

	rules := model.FrenchLoto()
	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	col := collector.New(fetcher, cache, ttl, rules, logger)

	// Init recorder
	var rec recorder.Recorder
	switch cfg.Database.Driver {
	case "sqlite":
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.DSN, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("sqlite recorder unavailable, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	case "postgres":
		pr, err := recorder.NewPostgresRecorder(cfg.Database.DSN, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("postgres recorder unavailable, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = pr
		}
	default:
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Init play budget
	var bank *bankroll.Manager
	if cfg.Budget.Monthly > 0 {
		bank, err = bankroll.NewManager(cfg.Budget.StateFile, cfg.Budget.Monthly, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("init bankroll")
		}
		logger.Info().Float64("monthly", cfg.Budget.Monthly).Msg("play budget enabled")
	}

	// Init Telegram notifier
	tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init telegram notifier")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	rep := metrics.New()
	sched, err := scheduler.New(ctx, cfg.Analysis, rules, scheduler.Deps{
		Collector: col,
		Recorder:  rec,
		Notifier:  tn,
		Metrics:   rep,
		Bankroll:  bank,
		Log:       logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("init scheduler")
	}
	if err := sched.RegisterAll(cfg.Schedule.LotoCron, cfg.Schedule.FootballCron, cfg.Schedule.DigestCron); err != nil {
		logger.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Expose Prometheus metrics
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				logger.Error().Err(err).Msg("metrics listener")
			}
		}()
		logger.Info().Str("listen", cfg.Metrics.Listen).Msg("prometheus metrics exposed")
	}

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	logger.Info().Msg("telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info().Msg("RUN_ON_START enabled, executing loto task now")
		go sched.RunLotoNow()
	}

	logger.Info().Msg("LotoSentinel is running, press Ctrl+C to stop")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutdown signal received, stopping")
	cancel()
	logger.Info().Msg("LotoSentinel stopped")
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	if cfg.Pretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return logger
}

// fallbackLogger reports failures that happen before the configured
// logger exists.
func fallbackLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}
