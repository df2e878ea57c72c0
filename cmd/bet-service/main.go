package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	bhttp "github.com/rongbachkim/lottery-bet-platform/internal/bet/http"
	kpub "github.com/rongbachkim/lottery-bet-platform/internal/bet/producer"
	"github.com/rongbachkim/lottery-bet-platform/internal/bet/rates"
	"github.com/rongbachkim/lottery-bet-platform/internal/bet/repo"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/cache"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/config"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/db"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/kafka"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/logger"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis (rates cache)
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	// Kafka writer (topic bet_placed)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)
	resolver := rates.New(pg, rdb, 30*time.Second)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicBetPlaced)

	// Public HTTP API
	api := bhttp.NewServer(log, repository, resolver, publ)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	log.Info("bet-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
