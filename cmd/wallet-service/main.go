package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/rongbachkim/lottery-bet-platform/internal/shared/config"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/db"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/logger"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/metrics"
	whttp "github.com/rongbachkim/lottery-bet-platform/internal/wallet/http"
	"github.com/rongbachkim/lottery-bet-platform/internal/wallet/repo"
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

	api := whttp.NewServer(log, repo.NewPostgres(pg))
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	log.Info("wallet-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
