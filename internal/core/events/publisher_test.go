package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaPublisher{w: fw, l: zap.NewNop()}

	e, err := New(TypeStoreCreated, "u1", "syriazone-api", map[string]string{"storeId": "s1"})
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), TopicStores, e))

	require.Len(t, fw.msgs, 1)
	m := fw.msgs[0]
	assert.Equal(t, TopicStores, m.Topic)
	assert.Equal(t, "u1", string(m.Key))
	assert.Equal(t, kafka.Header{Key: "event_type", Value: []byte(TypeStoreCreated)}, m.Headers[0])

	var got Event
	require.NoError(t, json.Unmarshal(m.Value, &got))
	assert.Equal(t, e.ID, got.ID)
	assert.JSONEq(t, `{"storeId":"s1"}`, string(got.Data))
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{w: &fakeWriter{err: boom}, l: zap.NewNop()}
	e, err := New(TypeUserRegistered, "u1", "test", nil)
	require.NoError(t, err)

	err = p.Publish(context.Background(), TopicUsers, e)
	assert.ErrorIs(t, err, boom)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), TopicUsers, &Event{}))
	assert.NoError(t, p.Close())
}
