package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/IBM/sarama"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/gammazero/workerpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nguyentranbao-ct/product-service/internal/config"
	"github.com/nguyentranbao-ct/product-service/pkg/util"
)

const consumeWorkers = 5

// StartConsumeEvents runs the notification worker: a consumer group on
// the product events topic feeding EventHandler.
func StartConsumeEvents(
	sd fx.Shutdowner,
	lc fx.Lifecycle,
	conf *config.Config,
	handler EventHandler,
) error {
	if !conf.Kafka.Enabled {
		log.Warnf(context.Background(), "Kafka consumer is disabled in configuration")
		return nil
	}

	metrics, err := util.GetHistogramVec("kafka_events_consumed", "status", "topic", "group")
	if err != nil {
		return fmt.Errorf("get histogram vec: %w", err)
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(conf.Kafka.Brokers, conf.Kafka.GroupID, cfg)
	if err != nil {
		return fmt.Errorf("init consumer group: %w", err)
	}

	consumer := &eventConsumer{
		handler: handler,
		metrics: metrics,
		groupID: conf.Kafka.GroupID,
		pool:    workerpool.New(consumeWorkers),
	}

	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(runCtx, "starting kafka consumer",
					"topic", conf.Kafka.Topic,
					"group", conf.Kafka.GroupID,
				)
				for runCtx.Err() == nil {
					err := group.Consume(runCtx, []string{conf.Kafka.Topic}, consumer)
					if err != nil && !errors.Is(err, context.Canceled) {
						log.Errorw(runCtx, "consumer group error", "error", err)
						sd.Shutdown()
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			consumer.pool.StopWait()
			return group.Close()
		},
	})
	return nil
}

type eventConsumer struct {
	handler EventHandler
	metrics *prometheus.HistogramVec
	groupID string
	pool    *workerpool.WorkerPool
}

func (c *eventConsumer) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (c *eventConsumer) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (c *eventConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := session.Context()
	for msg := range claim.Messages() {
		session.MarkMessage(msg, "")
		c.pool.Submit(func() {
			c.processMessage(ctx, msg)
		})
	}
	return nil
}

func (c *eventConsumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) {
	start := time.Now()
	lagMs := start.Sub(msg.Timestamp).Milliseconds()

	err := c.handle(ctx, msg.Value)
	duration := time.Since(start)

	code := status.Code(err)
	content := "success"
	if err != nil {
		content = err.Error()
	}

	level := zapcore.InfoLevel
	if code != codes.OK && code != codes.NotFound {
		level = zapcore.ErrorLevel
	}
	log.Logw(ctx, level, content,
		"code", code,
		"duration_ms", duration.Milliseconds(),
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"lag_ms", lagMs,
		"key", string(msg.Key),
		"value", json.RawMessage(msg.Value),
	)

	c.metrics.
		WithLabelValues(code.String(), msg.Topic, c.groupID).
		Observe(duration.Seconds())
}

func (c *eventConsumer) handle(ctx context.Context, value []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			length := runtime.Stack(stack, false)
			err = fmt.Errorf("PANIC RECOVER: %+v / %s", r, string(stack[:length]))
		}
	}()

	return c.handler.Handle(ctx, value)
}
