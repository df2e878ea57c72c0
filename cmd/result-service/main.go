package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	rhttp "github.com/rongbachkim/lottery-bet-platform/internal/result/http"
	kpub "github.com/rongbachkim/lottery-bet-platform/internal/result/producer"
	"github.com/rongbachkim/lottery-bet-platform/internal/result/repo"
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

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (topic result_recorded) — the settlement trigger
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultRecorded)
	defer writer.Close()

	repository := repo.NewPostgres(pg)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicResultRecorded)

	api := rhttp.NewServer(log, repository, publ)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	log.Info("result-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
