package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// SystemSpeaker labels transcript entries the service itself produced, such as
// completion failures shown inline in the conversation.
const SystemSpeaker = "system"

// Turn is one displayed exchange: the user's prompt and the reply it drew.
// Error entries carry SystemSpeaker as the prompt and the error text as the
// reply, mirroring how they appear in the chat window.
type Turn struct {
	Prompt string `json:"prompt"`
	Reply  string `json:"reply"`
}

// Store holds one append-only transcript per session id in a Redis list.
// Cleared only by logout; the TTL reaps transcripts of abandoned sessions.
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

func (s *Store) Append(ctx context.Context, sid string, turn Turn) error {
	payload, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal transcript turn failed: %w", err)
	}
	key := s.key(sid)
	if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("redis append transcript failed: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis expire transcript failed: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, sid string) ([]Turn, error) {
	raw, err := s.client.LRange(ctx, s.key(sid), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list transcript failed: %w", err)
	}

	turns := make([]Turn, 0, len(raw))
	for _, item := range raw {
		var turn Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("unmarshal transcript turn failed: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *Store) Clear(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("redis clear transcript failed: %w", err)
	}
	return nil
}

func (s *Store) key(sid string) string {
	return "chat:transcript:" + sid
}
