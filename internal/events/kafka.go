package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/meridianlabs/purchase-engine/internal/common"
	"github.com/meridianlabs/purchase-engine/internal/service"
)

// KafkaPublisher implements service.EventPublisher over a kafka topic. The
// event type becomes the message key so consumers can partition by type.
type KafkaPublisher struct {
	writer *kafkaGo.Writer
	retry  service.RetryOptions
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string, retry service.RetryOptions) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("%w: kafka brokers", common.ErrMissingConfig)
	}
	if topic == "" {
		return nil, fmt.Errorf("%w: kafka topic", common.ErrMissingConfig)
	}

	return &KafkaPublisher{
		writer: &kafkaGo.Writer{
			Addr:     kafkaGo.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkaGo.LeastBytes{},
		},
		retry: retry,
	}, nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Publish delivers one event with backoff. Failures after retries are
// surfaced to the caller; the purchase flow itself never blocks on BI.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = common.WithRetry(ctx, func() error {
		return p.writer.WriteMessages(ctx, kafkaGo.Message{
			Key:   []byte(eventType),
			Value: payload,
		})
	}, p.retry)
	if err != nil {
		slog.Error("Event publish failed", "event_type", eventType, "error", err)
		return fmt.Errorf("%w: %s: %v", common.ErrPublishFailed, eventType, err)
	}
	return nil
}
