package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// PublishJSONToStream appends one entry to stream with the JSON-encoded data
// under "data", the event type under "type" and a unix "timestamp".
// maxLen > 0 trims the stream approximately to that length.
func PublishJSONToStream(ctx context.Context, client *redis.Client, stream, eventType string, data any, maxLen int64) (string, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: maxLen,
		Approx: maxLen > 0,
		Values: map[string]any{
			"type":      eventType,
			"data":      string(body),
			"timestamp": time.Now().Unix(),
		},
	}).Result()
}
