// Package events fans domain events out to redis streams and mqtt.
// Publishing is best effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	commonredis "github.com/gopalbasak1/wind-house-management-server/common/redis"

	"github.com/go-redis/redis/v8"
)

// Event types.
const (
	AgreementSubmitted  = "agreement.submitted"
	AgreementAccepted   = "agreement.accepted"
	PaymentStored       = "payment.stored"
	AnnouncementCreated = "announcement.created"
)

type Publisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

// RedisStream appends events to one redis stream.
type RedisStream struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisStream(client *redis.Client, stream string, maxLen int64) *RedisStream {
	return &RedisStream{client: client, stream: stream, maxLen: maxLen}
}

func (p *RedisStream) Publish(ctx context.Context, eventType string, data any) error {
	if _, err := commonredis.PublishJSONToStream(ctx, p.client, p.stream, eventType, data, p.maxLen); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// MessagePublisher is satisfied by *mqtt.Client from common/mqtt.
type MessagePublisher interface {
	Publish(topic string, retained bool, payload []byte) error
}

// MQTT publishes selected event types as JSON to a single topic.
type MQTT struct {
	client MessagePublisher
	topic  string
	types  map[string]bool
}

// NewMQTT forwards only the listed event types; none listed means all.
func NewMQTT(client MessagePublisher, topic string, types ...string) *MQTT {
	m := &MQTT{client: client, topic: topic}
	if len(types) > 0 {
		m.types = make(map[string]bool, len(types))
		for _, t := range types {
			m.types[t] = true
		}
	}
	return m
}

type mqttMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func (m *MQTT) Publish(_ context.Context, eventType string, data any) error {
	if m.types != nil && !m.types[eventType] {
		return nil
	}
	payload, err := json.Marshal(mqttMessage{Type: eventType, Data: data})
	if err != nil {
		return err
	}
	return m.client.Publish(m.topic, false, payload)
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, eventType string, data any) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, eventType, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
