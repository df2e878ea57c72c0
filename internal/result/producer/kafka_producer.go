package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rongbachkim/lottery-bet-platform/pkg/contracts/events"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
	Topic  string
}

func NewKafkaPublisher(w *kafka.Writer, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic}
}

// PublishResultRecorded is the settlement trigger: the worker consumes this
// and settles the slot's pending bets. Keyed by date+region so duplicate
// draws for a slot land in the same partition.
func (p *KafkaPublisher) PublishResultRecorded(ctx context.Context, e events.ResultRecorded) error {
	e.Ts = time.Now()
	b, _ := json.Marshal(e)
	key := e.DrawDate + "|" + e.Region
	return p.Writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b})
}
