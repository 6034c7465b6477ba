package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/product-service/internal/config"
	"github.com/nguyentranbao-ct/product-service/internal/models"
)

type Producer interface {
	PublishProductTransferred(ctx context.Context, event models.ProductTransferredEvent) error
}

type saramaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(lc fx.Lifecycle, conf *config.Config) (Producer, error) {
	if !conf.Kafka.Enabled {
		return &noopProducer{}, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(conf.Kafka.Brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("init kafka producer: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return &saramaProducer{
		producer: producer,
		topic:    conf.Kafka.Topic,
	}, nil
}

func (p *saramaProducer) PublishProductTransferred(ctx context.Context, event models.ProductTransferredEvent) error {
	envelope := models.ProductEvent{
		Pattern: models.PatternProductTransferred,
		Data:    event,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.ProductID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	log.Infow(ctx, "published product event",
		"pattern", envelope.Pattern,
		"product_id", event.ProductID,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

type noopProducer struct{}

func (*noopProducer) PublishProductTransferred(ctx context.Context, event models.ProductTransferredEvent) error {
	log.Warnw(ctx, "kafka disabled, dropping product event", "product_id", event.ProductID)
	return nil
}
