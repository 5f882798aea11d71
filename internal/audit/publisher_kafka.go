package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"verigate/internal/platform/config"
)

// KafkaPublisher emits attempt events to a Kafka topic so downstream
// consumers (fraud analytics, SIEM) see every attempt without querying the
// store. Keyed by user ID to keep a user's attempts on one partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafkaPublisher connects to the configured brokers. Returns nil when no
// brokers are configured.
func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: cfg.Topic}, nil
}

// Publish produces one attempt event synchronously. The recorder worker is
// already off the request path, so a blocking produce here is acceptable.
func (p *KafkaPublisher) Publish(ctx context.Context, attempt Attempt) error {
	value, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal attempt event: %w", err)
	}

	record := &kgo.Record{
		Key:   []byte(attempt.UserID),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce attempt event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
