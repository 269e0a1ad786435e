package sortedstorage

import (
	"context"
	"time"

	"github.com/beka-birhanu/pathfinder-api/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// RedisSortedQueue manages a sorted queue in Redis with TTL support and an
// optional member cap. The session manager uses it to keep a bounded
// archive of finished search runs scored by expansion count.
type RedisSortedQueue struct {
	client   *redis.Client
	locker   *redsync.Redsync
	ttl      time.Duration
	capacity int64
}

// NewRedisSortedQueue initializes a RedisSortedQueue with the provided
// Redis client, TTL and capacity. Capacity 0 disables trimming.
func NewRedisSortedQueue(client *redis.Client, ttlSeconds int, capacity int64) (i.SortedQueue, error) {
	queue := &RedisSortedQueue{
		client:   client,
		ttl:      time.Duration(ttlSeconds) * time.Second,
		capacity: capacity,
	}
	pool := goredis.NewPool(client)
	queue.locker = redsync.New(pool)
	return queue, nil
}

// Enqueue adds a member to the sorted queue with a given score, sets
// expiration if necessary, and trims the highest-scored members when the
// queue exceeds its capacity.
func (rsq *RedisSortedQueue) Enqueue(ctx context.Context, queueKey string, score float64, member string) error {
	_, err := rsq.client.ZAdd(ctx, queueKey, redis.Z{Score: score, Member: member}).Result()
	if err != nil {
		return err
	}

	// Set expiration only if it's not already set
	ttl, err := rsq.client.TTL(ctx, queueKey).Result()
	if err == nil && ttl == -1 {
		_ = rsq.client.Expire(ctx, queueKey, rsq.ttl).Err()
	}

	if rsq.capacity > 0 {
		return rsq.trim(ctx, queueKey)
	}
	return nil
}

// trim drops the most expensive members above the capacity. The lock keeps
// concurrent writers from both popping the overflow.
func (rsq *RedisSortedQueue) trim(ctx context.Context, queueKey string) error {
	mutex := rsq.locker.NewMutex(queueKey + ":trim_lock")
	if err := mutex.Lock(); err != nil {
		return err
	}
	defer func() {
		_, _ = mutex.Unlock()
	}()

	if overflow := rsq.client.ZCard(ctx, queueKey).Val() - rsq.capacity; overflow > 0 {
		return rsq.client.ZPopMax(ctx, queueKey, overflow).Err()
	}
	return nil
}

// Tops retrieves up to `amount` members with the lowest scores without
// removing them.
func (rsq *RedisSortedQueue) Tops(ctx context.Context, queueKey string, amount int64) ([]string, error) {
	if amount <= 0 {
		return nil, nil
	}
	return rsq.client.ZRange(ctx, queueKey, 0, amount-1).Result()
}

// Count returns the number of members in the sorted queue.
func (rsq *RedisSortedQueue) Count(ctx context.Context, queueKey string) int64 {
	return rsq.client.ZCard(ctx, queueKey).Val()
}
