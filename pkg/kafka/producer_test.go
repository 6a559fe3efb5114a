package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, logger: testLogger()}
	topic := Topic("guide", "toggled")

	event, err := NewEvent("guide.toggled", "cust-1", "customer", "privacy", map[string]string{"guide_id": "g-1"})
	require.NoError(t, err)
	event.WithCorrelationID("corr-9")

	before := testutil.ToFloat64(ProducerMessagesPublished.WithLabelValues(topic))
	require.NoError(t, p.Publish(context.Background(), topic, event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, topic, msg.Topic)
	assert.Equal(t, "cust-1", string(msg.Key))
	assert.Equal(t, "guide.toggled", headerValue(msg, "event_type"))
	assert.Equal(t, event.EventID, headerValue(msg, "event_id"))
	assert.Equal(t, "corr-9", headerValue(msg, "correlation_id"))

	decoded, err := UnmarshalEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.InDelta(t, before+1, testutil.ToFloat64(ProducerMessagesPublished.WithLabelValues(topic)), 0.001)
}

func TestProducer_Publish_NoCorrelationHeader(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, logger: testLogger()}

	event, err := NewEvent("url.submitted", "cust-1", "customer", "privacy", map[string]int{"n": 1})
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), "t", event))

	assert.Empty(t, headerValue(w.msgs[0], "correlation_id"))
}

func TestProducer_Publish_WriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &Producer{writer: w, logger: testLogger()}
	topic := "producer-error-topic"

	event, err := NewEvent("guide.toggled", "cust-1", "customer", "privacy", map[string]string{})
	require.NoError(t, err)

	before := testutil.ToFloat64(ProducerPublishErrors.WithLabelValues(topic))
	err = p.Publish(context.Background(), topic, event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), topic)
	assert.InDelta(t, before+1, testutil.ToFloat64(ProducerPublishErrors.WithLabelValues(topic)), 0.001)
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, logger: testLogger()}
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"kafka-1:9092", "kafka-2:9092"})
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.BatchTimeout)
	assert.False(t, cfg.Async)
}

func TestNewProducer(t *testing.T) {
	p := NewProducer(DefaultProducerConfig([]string{"localhost:9092"}), testLogger())
	require.NotNil(t, p)
	assert.Equal(t, []string{"localhost:9092"}, p.brokers)
	require.NoError(t, p.Close())
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "doltnamn.guide.toggled", Topic("guide", "toggled"))
	assert.Equal(t, "doltnamn.deindex.status_changed", Topic("deindex", "status_changed"))
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers configured")
}
