package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMessage struct {
	topic   string
	payload []byte
}

type fakeBroker struct {
	sent []recordedMessage
	err  error
}

func (f *fakeBroker) Publish(topic string, _ bool, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, recordedMessage{topic: topic, payload: payload})
	return nil
}

func TestRedisStream_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := NewRedisStream(client, "windhouse:events", 100)
	err := p.Publish(context.Background(), PaymentStored, map[string]any{"email": "t@example.com", "price": 1080})
	require.NoError(t, err)

	entries, err := client.XRange(context.Background(), "windhouse:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, PaymentStored, entries[0].Values["type"])
	assert.JSONEq(t, `{"email":"t@example.com","price":1080}`, entries[0].Values["data"].(string))
}

func TestMQTT_FiltersTypes(t *testing.T) {
	broker := &fakeBroker{}
	p := NewMQTT(broker, "windhouse/announcements", AnnouncementCreated)

	require.NoError(t, p.Publish(context.Background(), PaymentStored, "ignored"))
	require.NoError(t, p.Publish(context.Background(), AnnouncementCreated, map[string]string{"title": "lift repaired"}))

	require.Len(t, broker.sent, 1)
	assert.Equal(t, "windhouse/announcements", broker.sent[0].topic)

	var msg struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(broker.sent[0].payload, &msg))
	assert.Equal(t, AnnouncementCreated, msg.Type)
	assert.Equal(t, "lift repaired", msg.Data["title"])
}

func TestMulti_JoinsErrors(t *testing.T) {
	ok := &fakeBroker{}
	boom := errors.New("broker down")
	m := Multi{NewMQTT(ok, "a"), NewMQTT(&fakeBroker{err: boom}, "b"), Nop{}}

	err := m.Publish(context.Background(), AgreementSubmitted, nil)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, ok.sent, 1)
}
