package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// SetDriverAvailability mirrors a driver's availability flag so dashboard
// pollers can read it without hitting the database.
func SetDriverAvailability(ctx context.Context, driverID uint, available bool) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("driver:availability:%d", driverID)
	value := "true"
	if !available {
		value = "false"
	}
	return RedisClient.Set(ctx, key, value, time.Hour).Err()
}

// GetDriverAvailability retrieves the cached availability flag.
func GetDriverAvailability(ctx context.Context, driverID uint) (bool, error) {
	if RedisClient == nil {
		return false, redis.Nil
	}
	key := fmt.Sprintf("driver:availability:%d", driverID)
	result, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return result == "true", nil
}

// PublishRequestUpdate publishes a request status change to the
// request:updates channel for any interested consumer.
func PublishRequestUpdate(ctx context.Context, requestID uint, status string, data map[string]interface{}) error {
	if RedisClient == nil {
		return nil
	}
	updateData := map[string]interface{}{
		"requestId": requestID,
		"status":    status,
		"data":      data,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "request:updates", jsonData).Err()
}
