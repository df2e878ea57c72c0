package main

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rongbachkim/lottery-bet-platform/internal/lottery"
	"github.com/rongbachkim/lottery-bet-platform/internal/settlement"
	srepo "github.com/rongbachkim/lottery-bet-platform/internal/settlement/repo"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/config"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/db"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/kafka"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/logger"
	"github.com/rongbachkim/lottery-bet-platform/internal/shared/metrics"
	ev "github.com/rongbachkim/lottery-bet-platform/pkg/contracts/events"
)

var (
	betsSettledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_bets_settled_total",
		Help: "Bets settled, partitioned by outcome.",
	}, []string{"outcome"}) // won | lost

	betsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_bets_skipped_total",
		Help: "Bets left pending after a storage error, retried on the next run.",
	})

	payoutTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_payout_vnd_total",
		Help: "Total VND credited to winners.",
	})
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
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka consumer: result_recorded triggers settlement of that slot
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  strings.Split(cfg.KafkaBrokers, ","),
		GroupID:  "settlement",
		Topic:    cfg.TopicResultRecorded,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	// Kafka producer: settlement reports for dashboards
	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetsSettled)
	defer settledWriter.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicResultRecordedDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultRecordedDLQ)
		defer dlqWriter.Close()
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	engine := settlement.New(log, srepo.NewPostgres(pg))

	log.Info("settlement-worker started",
		zap.String("consume", cfg.TopicResultRecorded),
		zap.String("publish", cfg.TopicBetsSettled),
	)

	ctx := context.Background()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var recorded ev.ResultRecorded
		if jerr := json.Unmarshal(msg.Value, &recorded); jerr != nil {
			log.Error("unmarshal result_recorded", zap.Error(jerr))
			continue
		}

		if err := processOne(ctx, log, engine, settledWriter, &recorded); err != nil {
			log.Error("settle slot", zap.String("drawDate", recorded.DrawDate),
				zap.String("region", recorded.Region), zap.Error(err))
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, recorded.DrawDate+"|"+recorded.Region, mustJSON(recorded))
			}
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// processOne settles one (date, region) slot and publishes the report.
// A retryable storage error is returned so the event lands in the DLQ; a
// missing result is not an error — pending bets just wait for the result.
func processOne(
	ctx context.Context,
	log *zap.Logger,
	engine *settlement.Engine,
	settledWriter *kafkago.Writer,
	recorded *ev.ResultRecorded,
) error {
	day, err := time.Parse("2006-01-02", recorded.DrawDate)
	if err != nil {
		log.Error("bad draw_date in event, dropping", zap.String("drawDate", recorded.DrawDate))
		return nil
	}
	region, err := lottery.ParseRegion(recorded.Region)
	if err != nil {
		log.Error("bad region in event, dropping", zap.String("region", recorded.Region))
		return nil
	}

	// Retry once after a short pause before giving up to the DLQ.
	rep, err := engine.Settle(ctx, day, region)
	if err != nil {
		time.Sleep(300 * time.Millisecond)
		if rep, err = engine.Settle(ctx, day, region); err != nil {
			return err
		}
	}

	betsSettledTotal.WithLabelValues("won").Add(float64(rep.Winners))
	betsSettledTotal.WithLabelValues("lost").Add(float64(rep.Losers))
	betsSkippedTotal.Add(float64(rep.Skipped))
	payoutTotal.Add(float64(rep.TotalPayout))

	evt := ev.BetsSettled{
		DrawDate:    recorded.DrawDate,
		Region:      recorded.Region,
		Winners:     rep.Winners,
		Losers:      rep.Losers,
		Skipped:     rep.Skipped,
		TotalPayout: rep.TotalPayout,
		Ts:          time.Now(),
	}
	return kafka.WriteJSON(ctx, settledWriter, recorded.DrawDate+"|"+recorded.Region, mustJSON(evt))
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
