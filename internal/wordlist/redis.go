package wordlist

import (
	"context"
	"slices"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "trigger_words"

// RedisStore keeps the trigger word list in a Redis set.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore uses DefaultRedisKey when key is empty.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (rs *RedisStore) Add(ctx context.Context, words ...string) error {
	if len(words) == 0 {
		return nil
	}
	members := make([]any, len(words))
	for i, w := range words {
		members[i] = w
	}
	return rs.client.SAdd(ctx, rs.key, members...).Err()
}

func (rs *RedisStore) Remove(ctx context.Context, word string) error {
	return rs.client.SRem(ctx, rs.key, word).Err()
}

// Words returns the stored words in sorted order.
func (rs *RedisStore) Words(ctx context.Context) ([]string, error) {
	words, err := rs.client.SMembers(ctx, rs.key).Result()
	if err != nil {
		return nil, err
	}
	slices.Sort(words)
	return words, nil
}
