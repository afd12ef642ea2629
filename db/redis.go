// db/redis.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/model"
)

var RedisClient *redis.Client

// SnapshotChannel carries invalidation ticks for the complaint collection.
// Every mutation publishes here; subscribers re-read the full collection.
const SnapshotChannel = "complaints.snapshot"

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func CacheUser(ctx context.Context, user *model.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	key := fmt.Sprintf("user:%s", user.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, userJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}

	logger.Debug("User cached successfully", zap.String("userID", user.ID))
	return nil
}

func DeleteCachedUser(ctx context.Context, userID string) error {
	key := fmt.Sprintf("user:%s", userID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete user from cache: %w", err)
	}
	logger.Debug("User deleted from cache", zap.String("userID", userID))
	return nil
}

func GetCachedUser(ctx context.Context, userID string) (*model.User, error) {
	key := fmt.Sprintf("user:%s", userID)
	userJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("User not found in cache", zap.String("userID", userID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user from cache: %w", err)
	}

	var user model.User
	err = json.Unmarshal([]byte(userJSON), &user)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	logger.Debug("User retrieved from cache", zap.String("userID", userID))
	return &user, nil
}

func CacheComplaint(ctx context.Context, complaint *model.Complaint) error {
	complaintJSON, err := json.Marshal(complaint)
	if err != nil {
		return fmt.Errorf("failed to marshal complaint: %w", err)
	}

	key := fmt.Sprintf("complaint:%s", complaint.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, complaintJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache complaint: %w", err)
	}

	logger.Debug("Complaint cached successfully", zap.String("complaintID", complaint.ID))
	return nil
}

func DeleteCachedComplaint(ctx context.Context, complaintID string) error {
	key := fmt.Sprintf("complaint:%s", complaintID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete complaint from cache: %w", err)
	}
	logger.Debug("Complaint deleted from cache", zap.String("complaintID", complaintID))
	return nil
}

func GetCachedComplaint(ctx context.Context, complaintID string) (*model.Complaint, error) {
	key := fmt.Sprintf("complaint:%s", complaintID)
	complaintJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Complaint not found in cache", zap.String("complaintID", complaintID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get complaint from cache: %w", err)
	}

	var complaint model.Complaint
	err = json.Unmarshal([]byte(complaintJSON), &complaint)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal complaint: %w", err)
	}

	logger.Debug("Complaint retrieved from cache", zap.String("complaintID", complaintID))
	return &complaint, nil
}

// CacheAreas stores the whole reference collection under one key. Reference
// data is small and read-only, so it is always cached as a unit.
func CacheAreas(ctx context.Context, areas []*model.Area) error {
	areasJSON, err := json.Marshal(areas)
	if err != nil {
		return fmt.Errorf("failed to marshal areas: %w", err)
	}

	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, "refdata:areas", areasJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache areas: %w", err)
	}

	logger.Debug("Areas cached successfully", zap.Int("count", len(areas)))
	return nil
}

func GetCachedAreas(ctx context.Context) ([]*model.Area, error) {
	areasJSON, err := RedisClient.Get(ctx, "refdata:areas").Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get areas from cache: %w", err)
	}

	var areas []*model.Area
	err = json.Unmarshal([]byte(areasJSON), &areas)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal areas: %w", err)
	}

	return areas, nil
}

// PublishSnapshotTick notifies all API instances that the complaint
// collection changed. The payload is deliberately just the complaint ID;
// subscribers re-read the full collection, they never apply diffs.
func PublishSnapshotTick(ctx context.Context, complaintID string) error {
	err := RedisClient.Publish(ctx, SnapshotChannel, complaintID).Err()
	if err != nil {
		return fmt.Errorf("failed to publish snapshot tick: %w", err)
	}
	logger.Debug("Snapshot tick published", zap.String("complaintID", complaintID))
	return nil
}

// SubscribeSnapshotTicks returns a channel of complaint IDs that triggered
// collection changes on any instance. The subscription ends with ctx.
func SubscribeSnapshotTicks(ctx context.Context) <-chan string {
	sub := RedisClient.Subscribe(ctx, SnapshotChannel)
	out := make(chan string, 16)

	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}
