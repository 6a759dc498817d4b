package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChannelFor is the pub/sub channel carrying one user's new notifications.
func ChannelFor(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

// RedisPublisher pushes serialized notifications to subscribed websocket streams.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish is a no-op without a redis client.
func (p *RedisPublisher) Publish(ctx context.Context, recipientID uuid.UUID, payload []byte) error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Publish(ctx, ChannelFor(recipientID), payload).Err()
}
