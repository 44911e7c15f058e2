package chat

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// MemoryStore keeps conversations in process. Used in development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Conversation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Conversation)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[id]
	if !ok {
		return Conversation{}, ErrConversationNotFound
	}
	c.Messages = append([]Message(nil), c.Messages...)
	return c, nil
}

func (s *MemoryStore) Save(_ context.Context, c Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Messages = append([]Message(nil), c.Messages...)
	s.items[c.ID] = c
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// RedisStore keeps every conversation as a JSON field of the hash named key.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "bizadmin:conversations"
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Get(ctx context.Context, id string) (Conversation, error) {
	var c Conversation
	raw, err := s.client.HGet(ctx, s.key, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return c, ErrConversationNotFound
		}
		return c, errors.Wrapf(err, "redis hget %s", id)
	}
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return c, errors.Wrapf(err, "decode conversation %s", id)
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, c Conversation) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode conversation")
	}
	return errors.Wrapf(s.client.HSet(ctx, s.key, c.ID, raw).Err(), "redis hset %s", c.ID)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(s.client.HDel(ctx, s.key, id).Err(), "redis hdel %s", id)
}
