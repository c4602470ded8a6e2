package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"quizdeck-server/internal/quiz"
)

const sessionKeyPrefix = "quizdeck:session:"

// RedisSessionStore keeps admin sessions in Redis so tokens survive a
// restart and can be shared by multiple processes. Each token lives under
// its own key with a TTL; zero TTL means no expiry.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Put(ctx context.Context, session AdminSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.Token, data, s.ttl).Err()
}

func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (AdminSession, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return AdminSession{}, quiz.Unauthorizedf("token is invalid")
	}
	if err != nil {
		return AdminSession{}, err
	}
	var session AdminSession
	if err := json.Unmarshal(data, &session); err != nil {
		return AdminSession{}, err
	}
	return session, nil
}

func (s *RedisSessionStore) Remove(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}

func (s *RedisSessionStore) All(ctx context.Context) ([]AdminSession, error) {
	sessions := []AdminSession{}
	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var session AdminSession
		if err := json.Unmarshal(data, &session); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
