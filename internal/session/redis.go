package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "parkflow:session:"
	redisPhonePrefix = "parkflow:phone:"
)

// RedisStore хранит сессии как JSON-значения; диалог истекает по TTL ключа.
// Телефон лежит в отдельном ключе без срока и переживает истечение диалога.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore создаёт хранилище; при ttl == 0 ключи живут без срока
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(chatID int64) string {
	return fmt.Sprintf("%s%d", redisKeyPrefix, chatID)
}

func redisPhoneKey(chatID int64) string {
	return fmt.Sprintf("%s%d", redisPhonePrefix, chatID)
}

func (r *RedisStore) Load(ctx context.Context, chatID int64) (*Session, error) {
	values, err := r.client.MGet(ctx, redisKey(chatID), redisPhoneKey(chatID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	s := New(chatID)
	data, ok := values[0].(string)
	if !ok {
		// диалог истёк или ещё не начинался
		if phone, ok := values[1].(string); ok {
			s.Phone = phone
		}
		return s, nil
	}

	if err := json.Unmarshal([]byte(data), s); err != nil {
		return nil, fmt.Errorf("decode session %d: %w", chatID, err)
	}
	s.ChatID = chatID
	if s.Fields == nil {
		s.Fields = make(map[string]string)
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %d: %w", s.ChatID, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKey(s.ChatID), data, r.ttl)
		if s.Phone == "" {
			pipe.Del(ctx, redisPhoneKey(s.ChatID))
		} else {
			pipe.Set(ctx, redisPhoneKey(s.ChatID), s.Phone, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, chatID int64) error {
	if err := r.client.Del(ctx, redisKey(chatID), redisPhoneKey(chatID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ResetIdle ничего не делает: просроченные диалоги удаляет сам Redis
func (r *RedisStore) ResetIdle(context.Context, time.Time) (int, error) {
	return 0, nil
}
