package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type producedMessage struct {
	topic   string
	key     string
	value   []byte
	headers map[string]string
}

type mockProducer struct {
	messages []producedMessage
	err      error
}

func (m *mockProducer) Produce(ctx context.Context, topic, key string, value []byte, headers map[string]string) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, producedMessage{topic: topic, key: key, value: value, headers: headers})
	return nil
}

func TestKafkaDLQPublisher_PublishToDLQ(t *testing.T) {
	producer := &mockProducer{}
	publisher := NewKafkaDLQPublisher(producer, &DLQConfig{TopicSuffix: ".dlq", Source: "price-change-worker"})

	err := publisher.PublishToDLQ(context.Background(), &DLQMessage{
		ID:            "evt-1",
		OriginalTopic: "session-price.change-requested",
		OriginalKey:   "4411",
		Payload:       json.RawMessage(`{"session_id":4411}`),
		Error:         "broker unavailable",
		Attempts:      4,
	})
	require.NoError(t, err)
	require.Len(t, producer.messages, 1)

	msg := producer.messages[0]
	assert.Equal(t, "session-price.change-requested.dlq", msg.topic)
	assert.Equal(t, "4411", msg.key)
	assert.Equal(t, "4", msg.headers["attempts"])
	assert.Equal(t, "price-change-worker", msg.headers["source"])

	var decoded DLQMessage
	require.NoError(t, json.Unmarshal(msg.value, &decoded))
	assert.Equal(t, "evt-1", decoded.ID)
	assert.Equal(t, "price-change-worker", decoded.Source)
	assert.False(t, decoded.MovedToDLQAt.IsZero())
}

func TestKafkaDLQPublisher_NilMessage(t *testing.T) {
	publisher := NewKafkaDLQPublisher(&mockProducer{}, nil)
	assert.Error(t, publisher.PublishToDLQ(context.Background(), nil))
	assert.Equal(t, "events.dlq", publisher.GetDLQTopic("events"))
}

func TestDLQHandler_ProcessWithDLQ_Success(t *testing.T) {
	producer := &mockProducer{}
	handler := NewDLQHandler(NewKafkaDLQPublisher(producer, nil), &DLQHandlerConfig{RetryConfig: fastConfig(2)})

	err := handler.ProcessWithDLQ(context.Background(), &MessageContext{ID: "1", Topic: "t"}, func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.Empty(t, producer.messages)
}

func TestDLQHandler_ProcessWithDLQ_AllRetriesFail(t *testing.T) {
	producer := &mockProducer{}
	var parked *DLQMessage
	handler := NewDLQHandler(NewKafkaDLQPublisher(producer, nil), &DLQHandlerConfig{
		RetryConfig: fastConfig(2),
		Source:      "test",
		OnDLQ:       func(msg *DLQMessage) { parked = msg },
	})

	err := handler.ProcessWithDLQ(context.Background(), &MessageContext{ID: "1", Topic: "t", Key: "k", Payload: []byte(`{}`)}, func(ctx context.Context) error {
		return errors.New("timeout")
	})

	assert.ErrorIs(t, err, ErrMaxRetriesExceeded)
	require.NotNil(t, parked)
	assert.Equal(t, 3, parked.Attempts)
	assert.Equal(t, "timeout", parked.Error)
	require.Len(t, producer.messages, 1)
	assert.Equal(t, "t.dlq", producer.messages[0].topic)
}

func TestDLQHandler_ProcessWithDLQ_PublishFails(t *testing.T) {
	producer := &mockProducer{err: errors.New("dlq down")}
	handler := NewDLQHandler(NewKafkaDLQPublisher(producer, nil), &DLQHandlerConfig{RetryConfig: fastConfig(0)})

	err := handler.ProcessWithDLQ(context.Background(), &MessageContext{ID: "1", Topic: "t"}, func(ctx context.Context) error {
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish to DLQ")
	assert.Contains(t, err.Error(), "boom")
}
