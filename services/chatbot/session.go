// File: services/chatbot/session.go
package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/NavaUDP/Agenda-Revitek/models"
)

// SessionStore persists per-phone conversation state between webhook calls.
type SessionStore interface {
	Get(ctx context.Context, phone string) (*models.ChatSession, error)
	Save(ctx context.Context, session *models.ChatSession) error
	Delete(ctx context.Context, phone string) error
}

// RedisSessionStore keeps sessions in Redis with a TTL so abandoned
// conversations expire on their own.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(phone string) string {
	return "chat:session:" + phone
}

func (s *RedisSessionStore) Get(ctx context.Context, phone string) (*models.ChatSession, error) {
	raw, err := s.client.Get(ctx, sessionKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var session models.ChatSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		// A corrupt session is unrecoverable; start over.
		_ = s.client.Del(ctx, sessionKey(phone)).Err()
		return nil, nil
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.ChatSession) error {
	session.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.Phone), raw, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, sessionKey(phone)).Err()
}
