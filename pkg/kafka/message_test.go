package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafka_config "coachbooking/pkg/kafka/config"
	"coachbooking/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBuilder_Build(t *testing.T) {
	ts := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	msg, err := NewMessage().
		WithKey("r1").
		WithEventType("reservation.booked").
		WithCorrelationID("req-1").
		WithSource("coachbooking").
		WithTimestamp(ts).
		WithValue(map[string]string{"status": "pending"}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "r1", msg.Key)
	assert.NotEmpty(t, msg.GetEventID())
	assert.Equal(t, "reservation.booked", msg.GetEventType())
	assert.Equal(t, "req-1", msg.GetCorrelationID())
	assert.Equal(t, "2024-06-01T09:00:00Z", msg.Headers[HeaderTimestamp])

	var body map[string]string
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "pending", body["status"])
}

func TestMessageBuilder_EncodingFailure(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.Error(t, err)
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p, err := NewProducer(&kafka_config.Config{
		Brokers:              []string{"localhost:9092"},
		ProducerMaxAttempts:  1,
		ProducerBatchTimeout: time.Millisecond,
		ProducerCompression:  "none",
	}, logger.Discard(), "coachbooking.lifecycle")
	require.NoError(t, err)

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("{}")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k", Value: []byte("{}")}), ErrProducerClosed)
}

func TestNewProducer_RequiresTopicAndBrokers(t *testing.T) {
	_, err := NewProducer(&kafka_config.Config{}, logger.Discard(), "topic")
	assert.Error(t, err)

	_, err = NewProducer(&kafka_config.Config{Brokers: []string{"localhost:9092"}}, logger.Discard(), "")
	assert.Error(t, err)
}
