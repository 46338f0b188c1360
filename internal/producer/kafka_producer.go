package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/predictplay-poc/pkg/contracts/events"
)

// KafkaPublisher publica eventos de auditoria nos tópicos de aposta e carteira
type KafkaPublisher struct {
	betWriter *kafka.Writer
	txnWriter *kafka.Writer
}

func NewKafkaPublisher(brokers, betTopic, txnTopic string) *KafkaPublisher {
	return &KafkaPublisher{
		betWriter: newWriter(brokers, betTopic),
		txnWriter: newWriter(brokers, txnTopic),
	}
}

func newWriter(brokers string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.betWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.SessionID), Value: b, Time: time.Now()})
}

func (p *KafkaPublisher) PublishWalletTxn(ctx context.Context, e events.WalletTxn) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.txnWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.SessionID), Value: b, Time: time.Now()})
}

func (p *KafkaPublisher) Close() error {
	err := p.betWriter.Close()
	if err2 := p.txnWriter.Close(); err == nil {
		err = err2
	}
	return err
}

// Noop é usado quando KAFKA_BROKERS não está configurado
type Noop struct{}

func (Noop) PublishBetPlaced(context.Context, events.BetPlaced) error { return nil }
func (Noop) PublishWalletTxn(context.Context, events.WalletTxn) error { return nil }
