package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"boletera/internal/shared/config"
	"boletera/pkg/logger"
)

// Producer publishes ticket lifecycle events. The checkout and scanner
// services call it fire-and-forget; a broker outage must never block a
// sale or a gate.
type Producer interface {
	PublishTicketsIssued(ctx context.Context, checkoutID string, count int)
	PublishTicketRedeemed(ctx context.Context, checkoutID, ticketID string)
	PublishCheckoutCancelled(ctx context.Context, checkoutID, reason string)
	Close() error
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaProducer connects a synchronous sarama producer with
// idempotent writes and all-replica acks, keyed by checkout for
// per-checkout ordering.
func NewKafkaProducer(cfg *config.KafkaConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.GetDefault().Info("Kafka ticket-event producer connected", "brokers", cfg.Brokers, "topic", cfg.TicketTopic)
	return &kafkaProducer{producer: producer, topic: cfg.TicketTopic}, nil
}

func (p *kafkaProducer) publish(ctx context.Context, event *TicketEvent) {
	event.ID = uuid.New()
	event.OccurredAt = time.Now()

	raw, err := event.ToJSON()
	if err != nil {
		logger.GetDefault().Error("failed to marshal ticket event", "type", event.Type, "error", err)
		return
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(raw),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		logger.GetDefault().Error("failed to publish ticket event",
			"type", event.Type, "checkout_id", event.CheckoutID, "error", err)
		return
	}

	logger.GetDefault().Debug("ticket event published",
		"type", event.Type, "partition", partition, "offset", offset)
}

func (p *kafkaProducer) PublishTicketsIssued(ctx context.Context, checkoutID string, count int) {
	p.publish(ctx, &TicketEvent{Type: EventTicketsIssued, CheckoutID: checkoutID, Count: count})
}

func (p *kafkaProducer) PublishTicketRedeemed(ctx context.Context, checkoutID, ticketID string) {
	p.publish(ctx, &TicketEvent{Type: EventTicketRedeemed, CheckoutID: checkoutID, TicketID: ticketID})
}

func (p *kafkaProducer) PublishCheckoutCancelled(ctx context.Context, checkoutID, reason string) {
	p.publish(ctx, &TicketEvent{Type: EventCheckoutCancelled, CheckoutID: checkoutID, Reason: reason})
}

func (p *kafkaProducer) Close() error {
	return p.producer.Close()
}

// NoopProducer is used when Kafka is disabled by configuration.
type NoopProducer struct{}

func (NoopProducer) PublishTicketsIssued(ctx context.Context, checkoutID string, count int)  {}
func (NoopProducer) PublishTicketRedeemed(ctx context.Context, checkoutID, ticketID string)  {}
func (NoopProducer) PublishCheckoutCancelled(ctx context.Context, checkoutID, reason string) {}
func (NoopProducer) Close() error                                                            { return nil }
