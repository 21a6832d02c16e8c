package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"

	"dealaudit/internal/audit"
	audithandler "dealaudit/internal/audit/handler"
	auditkafka "dealaudit/internal/audit/kafka"
	auditmetrics "dealaudit/internal/audit/metrics"
	auditstore "dealaudit/internal/audit/store"
	httpapi "dealaudit/internal/http"
	"dealaudit/internal/platform/config"
	"dealaudit/internal/platform/httpserver"
	"dealaudit/internal/platform/logger"
	"dealaudit/internal/records"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal services packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		log.Error("policy load failed", "path", cfg.PolicyPath, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var store audit.Store
	var reportLog audithandler.ReportLog
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg := auditstore.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("postgres schema setup failed", "error", err)
			os.Exit(1)
		}
		store, reportLog = pg, pg
	} else {
		log.Warn("no database configured, audit reports are held in memory")
		mem := auditstore.NewInMemoryStore()
		store, reportLog = mem, mem
	}

	var source records.Source = records.NewClient(cfg.RecordsBaseURL, cfg.RecordsToken)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		source = records.NewRedisCache(rdb, source, cfg.ParcelCacheTTL)
	}

	publisher := audit.Publisher(audit.NoopPublisher{})
	if len(cfg.KafkaBrokers) > 0 {
		kafkaClient, err := kgo.NewClient(
			kgo.SeedBrokers(cfg.KafkaBrokers...),
			kgo.DefaultProduceTopic(cfg.KafkaTopic),
		)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafkaClient.Close()
		publisher = auditkafka.New(kafkaClient, cfg.KafkaTopic)
	}

	metrics := auditmetrics.New()

	service, err := audit.NewService(source, store, publisher, metrics, log, policy.Scoring, policy.Audit)
	if err != nil {
		log.Error("service setup failed", "error", err)
		os.Exit(1)
	}

	handler := audithandler.New(service, reportLog, log)
	router := httpapi.NewRouter(handler)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting dealaudit", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
