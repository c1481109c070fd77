package runlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

const DefaultKey = "shop:bad_query_runs"

// RedisRunLog keeps the most recent bad-query runs in a capped Redis list,
// newest first.
type RedisRunLog struct {
	client *redis.Client
	key    string
	size   int64
}

func NewRedisRunLog(ctx context.Context, addr, password string, size int) (*RedisRunLog, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("✅ Connected to Redis at %s", addr)

	return &RedisRunLog{
		client: client,
		key:    DefaultKey,
		size:   int64(max(size, 1)),
	}, nil
}

// Record pushes rec and trims the list in one round trip.
func (l *RedisRunLog) Record(ctx context.Context, rec models.RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, l.key, data)
		pipe.LTrim(ctx, l.key, 0, l.size-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns up to n runs, newest first.
func (l *RedisRunLog) Recent(ctx context.Context, n int) ([]models.RunRecord, error) {
	n = models.Clamp(n, 1, int(l.size))

	vals, err := l.client.LRange(ctx, l.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	records := make([]models.RunRecord, 0, len(vals))
	for _, v := range vals {
		var rec models.RunRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			log.Printf("⚠️ Skipping unreadable run record: %v", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (l *RedisRunLog) Capacity() int {
	return int(l.size)
}

// Close closes the Redis connection
func (l *RedisRunLog) Close() error {
	return l.client.Close()
}
