package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/vytor/banishment/internal/api"
	"github.com/vytor/banishment/internal/config"
	"github.com/vytor/banishment/internal/db"
	"github.com/vytor/banishment/internal/events"
	"github.com/vytor/banishment/internal/gauntlet"
	"github.com/vytor/banishment/internal/jobs"
	"github.com/vytor/banishment/internal/judge"
	"github.com/vytor/banishment/internal/logger"
	"github.com/vytor/banishment/internal/metrics"
	"github.com/vytor/banishment/internal/repository/sqlite"
	"github.com/vytor/banishment/internal/services"
	"github.com/vytor/banishment/internal/sessionlock"
	"github.com/vytor/banishment/internal/validation"
	"github.com/vytor/banishment/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("Byte-Sized Banishment Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("judge_enabled=%t", cfg.JudgeURL != "")
	log.Debug("judge_timeout_seconds=%d", cfg.JudgeTimeoutSeconds)
	log.Debug("event_worker_count=%d", cfg.EventWorkerCount)
	log.Debug("event_queue_size=%d", cfg.EventQueueSize)
	log.Debug("rabbitmq_enabled=%t", cfg.RabbitMQURL != "")
	log.Debug("redis_enabled=%t", cfg.RedisAddr != "")

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	questionRepo := sqlite.NewQuestionRepository(database.DB)
	playerRepo := sqlite.NewPlayerRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)

	var codeJudge judge.Judge
	if cfg.JudgeURL != "" {
		codeJudge = judge.New(judge.Options{
			BaseURL: cfg.JudgeURL,
			APIKey:  cfg.JudgeAPIKey,
			APIHost: cfg.JudgeAPIHost,
			Timeout: time.Duration(cfg.JudgeTimeoutSeconds) * time.Second,
		})
	} else {
		log.Warn("JUDGE_URL is empty, code answers are graded by similarity only")
	}
	validator := validation.New(validation.Options{
		Judge:   codeJudge,
		Breaker: validation.NewBreaker(cfg.JudgeBreakerThreshold, time.Duration(cfg.JudgeBreakerCooldown)*time.Second),
		Timeout: time.Duration(cfg.JudgeTimeoutSeconds) * time.Second,
		Metrics: m,
	})

	publisher, err := events.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if err != nil {
		log.Error("failed to start event publisher: %v", err)
		os.Exit(1)
	}
	defer publisher.Close()

	eventPool := worker.NewPool(cfg.EventWorkerCount, cfg.EventQueueSize)
	eventQueue := jobs.NewWorkerQueue(eventPool, publisher, m)

	var locker sessionlock.Locker = sessionlock.NewLocal()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Error("failed to reach redis at %s: %v", cfg.RedisAddr, err)
			os.Exit(1)
		}
		defer client.Close()
		locker = sessionlock.NewRedis(client, time.Duration(cfg.SessionLockTTLSeconds)*time.Second)
		log.Info("session locks backed by redis at %s", cfg.RedisAddr)
	}

	rng := gauntlet.NewRand(cfg.RandomSeed)
	engine := gauntlet.NewEngine(
		gauntlet.NewSelector(questionRepo),
		gauntlet.NewPersona(gauntlet.DefaultDialogueCatalog(), rng),
		gauntlet.DefaultPenanceCatalog(),
		rng,
		time.Now,
	)

	srv := &api.Server{
		DB:            database.DB,
		PlayerService: services.NewPlayerService(playerRepo, sessionRepo),
		GauntletService: services.NewGauntletService(services.GauntletDeps{
			Questions: questionRepo,
			Players:   playerRepo,
			Sessions:  sessionRepo,
			Engine:    engine,
			Validator: validator,
			Locker:    locker,
			Queue:     eventQueue,
			Metrics:   m,
		}),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		RequestTimeout: time.Duration(cfg.JudgeTimeoutSeconds+10) * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	eventPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.JudgeTimeoutSeconds+20) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// drain queued events before the publisher closes
	log.Debug("stopping event pool")
	eventPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("Byte-Sized Banishment Server Stopped")
	log.Info("===========================================")
}
