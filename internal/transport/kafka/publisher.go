package kafka

import (
	"context"
	"fmt"
	"strings"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"

	"delivery-sync/internal/domain"
	"delivery-sync/internal/logx"
)

// Publisher writes sync events to a Kafka topic keyed by local record id.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   logx.Logger
}

// NewPublisher creates a synchronous producer. It returns nil when brokers or
// topic are not configured; a nil *Publisher drops every event.
func NewPublisher(brokers []string, topic string, logger logx.Logger) (*Publisher, error) {
	// не стартую если у кафки нет настроек
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return newPublisher(producer, topic, logger), nil
}

func newPublisher(producer sarama.SyncProducer, topic string, logger logx.Logger) *Publisher {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With(logx.Component("kafka_publisher")),
	}
}

// Publish sends one event and waits for the broker ack.
func (p *Publisher) Publish(ctx context.Context, ev domain.SyncEvent) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(FromDomain(ev))
	if err != nil {
		return fmt.Errorf("encode sync event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.RecordID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("send sync event %s: %w", ev.RecordID, err)
	}
	p.logger.Debug("sync event published",
		logx.String("id", ev.RecordID),
		logx.String("outcome", string(ev.Outcome)),
		logx.Any("partition", partition),
		logx.Int64("offset", offset),
	)
	return nil
}

// Close flushes and closes the producer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
