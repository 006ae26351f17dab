package mqtt

import (
	"errors"
	"fmt"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/common/config"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	// 断开前等待未完成发布的时间（毫秒）
	quiesceMillis = 250
)

// ErrPublishTimeout is returned when the broker does not ack in time.
var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Client is a publish-only connection; announcements are the only traffic.
type Client struct {
	conn    paho.Client
	qos     byte
	timeout time.Duration
}

func NewClient(cfg *config.MQTTConfig) (*Client, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "windhouse-" + uuid.NewString()[:8]
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectTimeout(connectTimeout)

	conn := paho.NewClient(opts)
	tok := conn.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect %s: timed out", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Broker, err)
	}
	return newClient(conn, cfg.QoS), nil
}

func newClient(conn paho.Client, qos byte) *Client {
	return &Client{conn: conn, qos: qos, timeout: publishTimeout}
}

// Publish waits for the broker ack, at most c.timeout.
func (c *Client) Publish(topic string, retained bool, payload []byte) error {
	tok := c.conn.Publish(topic, c.qos, retained, payload)
	if !tok.WaitTimeout(c.timeout) {
		return fmt.Errorf("%s: %w", topic, ErrPublishTimeout)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (c *Client) Disconnect() {
	c.conn.Disconnect(quiesceMillis)
}
