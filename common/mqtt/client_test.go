package mqtt

import (
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubToken 模拟 broker 的 ack
type stubToken struct {
	acked bool
	err   error
}

func (t *stubToken) Wait() bool                     { return t.acked }
func (t *stubToken) WaitTimeout(time.Duration) bool { return t.acked }
func (t *stubToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if t.acked {
		close(ch)
	}
	return ch
}
func (t *stubToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// stubConn 只实现 Publish / Disconnect
type stubConn struct {
	paho.Client
	token        *stubToken
	sent         []published
	disconnected uint
}

func (c *stubConn) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.sent = append(c.sent, published{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return c.token
}

func (c *stubConn) Disconnect(quiesce uint) { c.disconnected = quiesce }

func TestClient_Publish(t *testing.T) {
	brokerErr := errors.New("not authorized")
	tests := []struct {
		name    string
		token   *stubToken
		wantErr error
	}{
		{"acked", &stubToken{acked: true}, nil},
		{"broker error", &stubToken{acked: true, err: brokerErr}, brokerErr},
		{"no ack", &stubToken{}, ErrPublishTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &stubConn{token: tt.token}
			c := newClient(conn, 1)

			err := c.Publish("windhouse/announcements", false, []byte(`{"type":"x"}`))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "windhouse/announcements")
			} else {
				assert.NoError(t, err)
			}
			require.Len(t, conn.sent, 1)
			assert.Equal(t, byte(1), conn.sent[0].qos)
			assert.False(t, conn.sent[0].retained)
		})
	}
}

func TestClient_Disconnect(t *testing.T) {
	conn := &stubConn{}
	newClient(conn, 0).Disconnect()
	assert.Equal(t, uint(quiesceMillis), conn.disconnected)
}
