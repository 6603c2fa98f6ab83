package producer

import (
	"context"
	"encoding/json"
	"time"

	skafka "github.com/betbros/bet-settlement-platform/internal/shared/kafka"
	"github.com/betbros/bet-settlement-platform/pkg/contracts/events"
)

type KafkaPublisher struct {
	Writer *skafka.Writer
	Topic  string
}

func NewKafkaPublisher(w *skafka.Writer, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic}
}

func (p *KafkaPublisher) PublishWagerPlaced(ctx context.Context, e events.WagerPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.Writer, e.WagerID, b)
}
