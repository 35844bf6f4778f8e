package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisNamespace = "suppliers:"

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	Namespace string
}

// RedisStore keeps each pair as a plain Redis string under Namespace+key.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, unavailable("connect redis", err)
	}

	return NewRedisStoreWithClient(client, cfg.Namespace), nil
}

// NewRedisStoreWithClient wraps an existing client without checking it.
func NewRedisStoreWithClient(client *redis.Client, namespace string) *RedisStore {
	if namespace == "" {
		namespace = defaultRedisNamespace
	}
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) GetAllKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.namespace+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.namespace))
	}
	if err := iter.Err(); err != nil {
		return nil, unavailable("get all keys", err)
	}
	// SCAN may return a key more than once while the keyspace is rehashed.
	return uniqueKeys(keys), nil
}

func (s *RedisStore) MultiGet(ctx context.Context, keys []string) ([]Pair, error) {
	if len(keys) == 0 {
		return []Pair{}, nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.namespace + k
	}

	values, err := s.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, unavailable("multi get", err)
	}

	pairs := make([]Pair, 0, len(values))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// nil for keys that do not exist
			continue
		}
		pairs = append(pairs, Pair{Key: keys[i], Value: str})
	}
	return pairs, nil
}

func (s *RedisStore) MultiSet(ctx context.Context, pairs []Pair) error {
	if len(pairs) == 0 {
		return nil
	}

	args := make([]any, 0, len(pairs)*2)
	for _, p := range pairs {
		args = append(args, s.namespace+p.Key, p.Value)
	}
	if err := s.client.MSet(ctx, args...).Err(); err != nil {
		return unavailable("multi set", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.namespace+key).Err(); err != nil {
		return unavailable("remove", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
