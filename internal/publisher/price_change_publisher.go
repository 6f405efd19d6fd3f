package publisher

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/prohmpiriya/price-settings/pkg/retry"
)

// Producer writes one encoded record to a topic
type Producer interface {
	Produce(ctx context.Context, topic, key string, value []byte, headers map[string]string) error
}

// PriceChangePublisher publishes session price change events. Failed
// deliveries are retried with backoff and parked in "<topic><dlq suffix>".
type PriceChangePublisher struct {
	producer Producer
	topic    string
	dlq      *retry.DLQHandler
}

// Config configures a PriceChangePublisher
type Config struct {
	Topic       string
	DLQSuffix   string
	Source      string
	RetryConfig *retry.Config
	// OnDLQ is called for every event moved to the dead letter topic
	OnDLQ func(msg *retry.DLQMessage)
}

// NewPriceChangePublisher creates a publisher on producer
func NewPriceChangePublisher(producer Producer, cfg Config) *PriceChangePublisher {
	if cfg.RetryConfig == nil {
		cfg.RetryConfig = retry.DefaultConfig()
	}
	dlqPublisher := retry.NewKafkaDLQPublisher(producer, &retry.DLQConfig{
		TopicSuffix: cfg.DLQSuffix,
		Source:      cfg.Source,
	})
	return &PriceChangePublisher{
		producer: producer,
		topic:    cfg.Topic,
		dlq: retry.NewDLQHandler(dlqPublisher, &retry.DLQHandlerConfig{
			RetryConfig: cfg.RetryConfig,
			Source:      cfg.Source,
			OnDLQ:       cfg.OnDLQ,
		}),
	}
}

// Topic returns the destination topic
func (p *PriceChangePublisher) Topic() string {
	return p.topic
}

// Publish delivers evt keyed by session id, so changes to one session stay ordered
func (p *PriceChangePublisher) Publish(ctx context.Context, evt domain.SessionChannelPriceChangeEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode price change event %s: %w", evt.ID, err)
	}

	key := strconv.FormatInt(evt.SessionID, 10)
	headers := map[string]string{
		"content_type": "application/json",
		"event_id":     evt.ID,
		"fqn":          evt.FQN,
	}

	msg := &retry.MessageContext{
		ID:      evt.ID,
		Topic:   p.topic,
		Key:     key,
		Payload: value,
		Headers: headers,
	}
	return p.dlq.ProcessWithDLQ(ctx, msg, func(ctx context.Context) error {
		return p.producer.Produce(ctx, p.topic, key, value, headers)
	})
}
