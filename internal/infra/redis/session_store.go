package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps each player's served-city set in Redis, so play sessions
// survive process restarts and are shared across instances. Keys expire after
// the configured TTL of inactivity.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) UsedCities(ctx context.Context, username string) ([]string, error) {
	cities, err := s.client.SMembers(ctx, s.key(username)).Result()
	if err != nil {
		return nil, err
	}
	return cities, nil
}

func (s *SessionStore) SaveUsedCities(ctx context.Context, username string, cities []string) error {
	key := s.key(username)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(cities) > 0 {
		members := make([]interface{}, len(cities))
		for i, city := range cities {
			members[i] = city
		}
		pipe.SAdd(ctx, key, members...)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) key(username string) string {
	return "play:session:" + username
}
