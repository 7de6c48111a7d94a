package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_WritesEnvelope(t *testing.T) {
	writer := &recordingWriter{}
	pub := &kafkaPublisher{writer: writer, logger: zap.NewNop()}

	event := NewEvent(TypeOrderCreated, "RK123", map[string]int{"total": 40500})
	require.NoError(t, pub.Publish(context.Background(), event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "RK123", string(msg.Key))
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, TypeOrderCreated, string(msg.Headers[0].Value))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, TypeOrderCreated, decoded["eventType"])
	assert.NotContains(t, decoded, "Key")

	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	pub := &kafkaPublisher{writer: &recordingWriter{err: boom}, logger: zap.NewNop()}

	err := pub.Publish(context.Background(), NewEvent(TypeSellSubmitted, "RK1", nil))
	assert.True(t, errors.Is(err, boom))
}

func TestNewKafkaPublisher_NoBrokersLogsOnly(t *testing.T) {
	pub := NewKafkaPublisher(nil, "rekraft.events", zap.NewNop())
	_, isLog := pub.(*logPublisher)
	assert.True(t, isLog)
	assert.NoError(t, pub.Publish(context.Background(), NewEvent(TypePaymentVerified, "x", nil)))
	assert.NoError(t, pub.Close())
}

func TestNewKafkaPublisher_FlushesWithoutWaitingForBatch(t *testing.T) {
	pub := NewKafkaPublisher([]string{"localhost:9092"}, "rekraft.events", zap.NewNop())
	kp, ok := pub.(*kafkaPublisher)
	require.True(t, ok)

	writer, ok := kp.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.LessOrEqual(t, writer.BatchTimeout, 10*time.Millisecond)
	assert.Positive(t, writer.BatchTimeout)
	assert.NoError(t, pub.Close())
}
