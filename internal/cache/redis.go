// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"uno-server/internal/game"
)

// Rdb is the global Redis client. Connect it once at application startup.
// A nil client simply drops records; the game never depends on Redis.
var Rdb *redis.Client

// DefaultQueueName is the Redis list that finished-match records land on,
// for an out-of-process consumer to archive.
var DefaultQueueName = "uno_match_results"

// MatchResultRecord is the finish order of one completed match.
type MatchResultRecord struct {
	LobbyCode string           `json:"lobby_code"`
	Rankings  []game.RankEntry `json:"rankings"`
	Timestamp int64            `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client with environment
// variables REDIS_ADDR (default "localhost:6379") and REDIS_DB (default 0).
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		Rdb = nil
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// PublishMatchResult serializes the record and pushes it onto the results
// queue.
func PublishMatchResult(ctx context.Context, record MatchResultRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal MatchResultRecord: %w", err)
	}

	queueName := getEnv("RESULTS_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
