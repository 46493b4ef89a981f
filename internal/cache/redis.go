// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jason-s-yu/blanks/internal/game"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list (queue) name for session action logs.
const DefaultQueueName = "blanks_actions"

// ConnectRedis opens a client for addr and database index db, and pings it.
func ConnectRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Pusher is the part of a Redis client used to enqueue records.
type Pusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// ActionPublisher pushes session actions onto a Redis list for the historian.
type ActionPublisher struct {
	client Pusher
	queue  string
}

// NewActionPublisher publishes to queue, or DefaultQueueName when queue is empty.
func NewActionPublisher(client Pusher, queue string) *ActionPublisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &ActionPublisher{client: client, queue: queue}
}

// PublishAction serializes the record to JSON and pushes it to the queue.
func (p *ActionPublisher) PublishAction(ctx context.Context, rec game.ActionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal ActionRecord: %w", err)
	}
	if err := p.client.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}

// Queue is the list the publisher writes to.
func (p *ActionPublisher) Queue() string {
	return p.queue
}
