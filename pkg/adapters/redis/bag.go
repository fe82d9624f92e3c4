package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/senglish/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Bag implements ports.StateBag on a single Redis hash.
type Bag struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Bag)

// WithTTL sets the expiration of the bag. It is refreshed on every write.
func WithTTL(ttl time.Duration) Option {
	return func(b *Bag) {
		b.ttl = ttl
	}
}

// WithPrefix sets the key prefix for the bag.
func WithPrefix(prefix string) Option {
	return func(b *Bag) {
		b.prefix = prefix
	}
}

// New creates a new Redis bag with options.
func New(address, password string, db int, opts ...Option) *Bag {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis bag from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Bag {
	bag := &Bag{
		client: client,
		prefix: "senglish:",
	}

	for _, opt := range opts {
		opt(bag)
	}

	return bag
}

// Client exposes the underlying connection so lockers can share it.
func (b *Bag) Client() *backend.Client {
	return b.client
}

func (b *Bag) hashKey() string {
	return b.prefix + "state"
}

// Set writes the JSON-encoded value into the hash.
func (b *Bag) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %q: %w", key, err)
	}

	pipe := b.client.Pipeline()
	pipe.HSet(ctx, b.hashKey(), key, data)
	if b.ttl > 0 {
		pipe.Expire(ctx, b.hashKey(), b.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get reads a value from the hash.
func (b *Bag) Get(ctx context.Context, key string) (any, error) {
	val, err := b.client.HGet(ctx, b.hashKey(), key).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to load from redis: %w", err)
	}

	var v any
	if err := json.Unmarshal([]byte(val), &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal value for %q: %w", key, err)
	}
	return v, nil
}

// Delete removes the key from the hash.
func (b *Bag) Delete(ctx context.Context, key string) error {
	if err := b.client.HDel(ctx, b.hashKey(), key).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Keys lists the hash fields.
func (b *Bag) Keys(ctx context.Context) ([]string, error) {
	keys, err := b.client.HKeys(ctx, b.hashKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list redis keys: %w", err)
	}
	return keys, nil
}
