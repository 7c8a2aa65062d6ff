package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"coachbooking/pkg/kafka"
	"coachbooking/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(t *testing.T, eventType string) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey("r1").
		WithEventType(eventType).
		WithValue(map[string]string{"reservation_id": "r1"}).
		Build()
	require.NoError(t, err)
	msg.Topic = "coachbooking.test"
	return msg
}

func TestMetricsProducerMiddleware_CountsResults(t *testing.T) {
	mw := MetricsProducerMiddleware()
	ok := func(ctx context.Context, msg kafka.Message) error { return nil }
	fail := func(ctx context.Context, msg kafka.Message) error { return errors.New("broker down") }

	success := messagesPublished.WithLabelValues("coachbooking.test", "metrics.test", "success")
	failure := messagesPublished.WithLabelValues("coachbooking.test", "metrics.test", "failure")
	beforeSuccess, beforeFailure := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	require.NoError(t, mw(context.Background(), testMessage(t, "metrics.test"), ok))
	require.Error(t, mw(context.Background(), testMessage(t, "metrics.test"), fail))

	assert.Equal(t, beforeSuccess+1, testutil.ToFloat64(success))
	assert.Equal(t, beforeFailure+1, testutil.ToFloat64(failure))
}

func TestLoggingProducerMiddleware_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: logger.DEBUG})
	mw := LoggingProducerMiddleware(log)

	err := mw(context.Background(), testMessage(t, "reservation.booked"), func(ctx context.Context, msg kafka.Message) error {
		return errors.New("broker down")
	})

	require.Error(t, err)
	assert.Contains(t, buf.String(), "Failed to publish kafka message")
	assert.Contains(t, buf.String(), "reservation.booked")
}
