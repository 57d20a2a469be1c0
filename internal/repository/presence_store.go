package repository

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPresenceWindow is how long a presence mark stays alive without being refreshed.
const DefaultPresenceWindow = 5 * time.Minute

// PresenceStore keeps the short-lived "session is viewing page" registry. Mark prunes the
// touched page; Count reads the page without pruning.
type PresenceStore interface {
	Mark(ctx context.Context, sessionID, page string, active bool) error
	Count(ctx context.Context, page string) (int, error)
}

type memoryPresenceStore struct {
	mu     sync.Mutex
	pages  map[string]map[string]time.Time
	window time.Duration
	now    func() time.Time
}

// NewMemoryPresenceStore keeps presence in process memory behind a single mutex.
func NewMemoryPresenceStore(window time.Duration) PresenceStore {
	if window <= 0 {
		window = DefaultPresenceWindow
	}
	return &memoryPresenceStore{
		pages:  make(map[string]map[string]time.Time),
		window: window,
		now:    time.Now,
	}
}

func (s *memoryPresenceStore) Mark(ctx context.Context, sessionID, page string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sessions, ok := s.pages[page]
	if !ok {
		sessions = make(map[string]time.Time)
		s.pages[page] = sessions
	}

	if active {
		sessions[sessionID] = now
	} else {
		delete(sessions, sessionID)
	}

	for id, lastSeen := range sessions {
		if now.Sub(lastSeen) >= s.window {
			delete(sessions, id)
		}
	}
	return nil
}

func (s *memoryPresenceStore) Count(ctx context.Context, page string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages[page]), nil
}

type redisPresenceStore struct {
	client *redis.Client
	window time.Duration
	now    func() time.Time
}

// NewRedisPresenceStore shares presence between instances using one sorted set per page,
// scored by the last-seen time in milliseconds.
func NewRedisPresenceStore(client *redis.Client, window time.Duration) PresenceStore {
	if window <= 0 {
		window = DefaultPresenceWindow
	}
	return &redisPresenceStore{client: client, window: window, now: time.Now}
}

func (s *redisPresenceStore) key(page string) string {
	return "presence:page:" + page
}

func (s *redisPresenceStore) Mark(ctx context.Context, sessionID, page string, active bool) error {
	now := s.now()
	key := s.key(page)
	cutoff := now.Add(-s.window).UnixMilli()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if active {
			pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: sessionID})
		} else {
			pipe.ZRem(ctx, key, sessionID)
		}
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10))
		return nil
	})
	return err
}

func (s *redisPresenceStore) Count(ctx context.Context, page string) (int, error) {
	count, err := s.client.ZCard(ctx, s.key(page)).Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
