package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// cartTTL keeps abandoned carts around long enough to survive a revisit.
const cartTTL = 30 * 24 * time.Hour

// RedisStore persists each cart as one serialized line array under
// cart:<id>. A corrupted payload is treated as an empty cart rather than an
// error.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func key(cartID string) string {
	return "cart:" + cartID
}

func (s *RedisStore) load(ctx context.Context, cartID string) ([]Line, error) {
	val, err := s.Client.Get(ctx, key(cartID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart from redis: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal([]byte(val), &lines); err != nil {
		return nil, nil
	}
	return lines, nil
}

func (s *RedisStore) save(ctx context.Context, cartID string, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.Client.Set(ctx, key(cartID), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to set cart in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) GetAll(ctx context.Context, cartID string) ([]Line, error) {
	return s.load(ctx, cartID)
}

func (s *RedisStore) AddItem(ctx context.Context, cartID string, line Line) ([]Line, error) {
	lines, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	lines = addLine(lines, line)
	if err := s.save(ctx, cartID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *RedisStore) RemoveItem(ctx context.Context, cartID string, productID uint) ([]Line, error) {
	lines, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	lines = removeLine(lines, productID)
	if err := s.save(ctx, cartID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *RedisStore) Clear(ctx context.Context, cartID string) error {
	if err := s.Client.Del(ctx, key(cartID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to delete cart from redis: %w", err)
	}
	return nil
}
