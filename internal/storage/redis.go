package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cart-service/internal/models"
	"cart-service/internal/util"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps slots as JSON strings under fixed keys. It is the driver
// of choice when the session state should survive the local filesystem.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func slotKey(slot string) string {
	return fmt.Sprintf("slot:%s", slot)
}

func (s *RedisStore) loadSlot(ctx context.Context, slot string) ([]byte, bool, error) {
	raw, err := s.rdb.Get(ctx, slotKey(slot)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load slot %s: %w", slot, err)
	}
	return raw, true, nil
}

func (s *RedisStore) saveSlot(ctx context.Context, slot string, v interface{}) error {
	start := time.Now()
	defer func() {
		util.SlotSaveLatency.WithLabelValues(slot).Observe(time.Since(start).Seconds())
	}()

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal slot %s: %w", slot, err)
	}

	if err := s.rdb.Set(ctx, slotKey(slot), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	return nil
}

// LoadProducts deserializes the products slot.
func (s *RedisStore) LoadProducts(ctx context.Context) ([]models.Product, bool, error) {
	raw, found, err := s.loadSlot(ctx, SlotProducts)
	if err != nil || !found {
		return nil, found, err
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptSlot, SlotProducts, err)
	}
	return products, true, nil
}

// SaveProducts replaces the products slot.
func (s *RedisStore) SaveProducts(ctx context.Context, products []models.Product) error {
	return s.saveSlot(ctx, SlotProducts, products)
}

// LoadCart deserializes the cart slot.
func (s *RedisStore) LoadCart(ctx context.Context) ([]models.CartLine, bool, error) {
	raw, found, err := s.loadSlot(ctx, SlotCart)
	if err != nil || !found {
		return nil, found, err
	}

	var lines []models.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptSlot, SlotCart, err)
	}
	return lines, true, nil
}

// SaveCart replaces the cart slot.
func (s *RedisStore) SaveCart(ctx context.Context, lines []models.CartLine) error {
	return s.saveSlot(ctx, SlotCart, lines)
}
