package producer

import (
	"context"
	"encoding/json"

	skafka "github.com/betbros/bet-settlement-platform/internal/shared/kafka"
	"github.com/betbros/bet-settlement-platform/pkg/contracts/events"
)

// KafkaPublisher publica os eventos de liquidação em dois tópicos:
// um por aposta (wager_settled) e um por fixture encerrada (fixture_settled).
type KafkaPublisher struct {
	WagerWriter   *skafka.Writer
	FixtureWriter *skafka.Writer
}

func NewKafkaPublisher(wagerWriter, fixtureWriter *skafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{WagerWriter: wagerWriter, FixtureWriter: fixtureWriter}
}

func (p *KafkaPublisher) PublishWagerSettled(ctx context.Context, e events.WagerSettled) error {
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.WagerWriter, e.WagerID, b)
}

func (p *KafkaPublisher) PublishFixtureSettled(ctx context.Context, e events.FixtureSettled) error {
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.FixtureWriter, e.FixtureKey, b)
}
