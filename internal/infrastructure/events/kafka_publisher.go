// Package events publica los eventos de posteo del ledger.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

var _ inventory.EventPublisher = (*KafkaPublisher)(nil)

// KafkaConfig parámetros del productor.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Acks    string // "0", "1" o "all"
	Retries int
}

// KafkaPublisher publica DocumentPostedEvent en un topic con la clave del documento como partition key,
// así los eventos de un mismo documento conservan su orden.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

// NewKafkaPublisher crea un productor síncrono idempotente.
func NewKafkaPublisher(cfg KafkaConfig, log zerolog.Logger) (*KafkaPublisher, error) {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.Retry.Max = cfg.Retries
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1
	switch cfg.Acks {
	case "0":
		sc.Producer.RequiredAcks = sarama.NoResponse
	case "1":
		sc.Producer.RequiredAcks = sarama.WaitForLocal
	default:
		sc.Producer.RequiredAcks = sarama.WaitForAll
	}
	if sc.Producer.RequiredAcks != sarama.WaitForAll {
		// el productor idempotente exige acks=all
		sc.Producer.Idempotent = false
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("crear productor kafka: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, cfg.Topic, log), nil
}

// NewKafkaPublisherWithProducer permite inyectar el productor (mocks de sarama en tests).
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, log zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, log: log}
}

const maxPublishAttempts = 3

// Publish envía el evento con reintentos y backoff exponencial (100ms, 200ms).
func (p *KafkaPublisher) Publish(ctx context.Context, event inventory.DocumentPostedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.DocumentID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte("DocumentPosted")},
			{Key: []byte("document-type"), Value: []byte(event.DocumentType)},
			{Key: []byte("event-id"), Value: []byte(event.EventID)},
			{Key: []byte("timestamp"), Value: []byte(event.PostedAt.UTC().Format(time.RFC3339))},
		},
	}

	delay := 100 * time.Millisecond
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("contexto cancelado: %w", err)
		}
		partition, offset, err := p.producer.SendMessage(msg)
		if err == nil {
			p.log.Debug().Str("topic", p.topic).Int32("partition", partition).Int64("offset", offset).
				Str("document_id", event.DocumentID).Msg("evento de posteo publicado")
			return nil
		}
		if attempt == maxPublishAttempts {
			return fmt.Errorf("publicar evento tras %d intentos: %w", attempt, err)
		}
		p.log.Warn().Err(err).Int("attempt", attempt).Str("topic", p.topic).Msg("fallo al publicar evento, reintentando")
		select {
		case <-ctx.Done():
			return fmt.Errorf("contexto cancelado: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// Close cierra el productor.
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
