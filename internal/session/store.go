package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// Store keeps active sessions in Redis keyed by session id. Only a successful
// login writes a record and only logout deletes one; an expired or missing
// record reads back as the logged-out session.
type Store struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewStore(client *redisv9.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Put(ctx context.Context, sid string, sess Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sid), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session failed: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, sid string) (Session, bool, error) {
	raw, err := s.client.Get(ctx, s.key(sid)).Result()
	if err == redisv9.Nil {
		return LoggedOut(), false, nil
	}
	if err != nil {
		return LoggedOut(), false, fmt.Errorf("redis get session failed: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return LoggedOut(), false, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return sess, true, nil
}

func (s *Store) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func (s *Store) key(sid string) string {
	return "session:" + sid
}
