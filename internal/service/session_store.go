package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"course-advisor/internal/domain"
)

// SessionStore keeps in-flight assessment sessions. One session is accessed
// by one caller at a time in the reference flow; the assessment service
// serializes mutation per session id on top of this. Abandoned sessions are
// evicted after the idle TTL to bound memory; eviction is garbage collection,
// not a correctness concern.
type SessionStore interface {
	Put(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, id string) (domain.Session, bool, error)
	Delete(ctx context.Context, id string) error
}

type memorySessionEntry struct {
	session  domain.Session
	lastSeen time.Time
}

type memorySessionStore struct {
	mu      sync.Mutex
	items   map[string]memorySessionEntry
	idleTTL time.Duration
}

// NewMemorySessionStore builds the default in-process store. Expired entries
// are evicted lazily on access and swept opportunistically on writes.
func NewMemorySessionStore(idleTTL time.Duration) SessionStore {
	if idleTTL <= 0 {
		idleTTL = time.Hour
	}
	return &memorySessionStore{
		items:   make(map[string]memorySessionEntry),
		idleTTL: idleTTL,
	}
}

func (s *memorySessionStore) Put(_ context.Context, session domain.Session) error {
	if session.ID == "" {
		return errors.New("session id is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.items[session.ID] = memorySessionEntry{
		session:  domain.CloneSession(session),
		lastSeen: time.Now().UTC(),
	}
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, id string) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[id]
	if !ok {
		return domain.Session{}, false, nil
	}
	if time.Now().UTC().Sub(entry.lastSeen) > s.idleTTL {
		delete(s.items, id)
		return domain.Session{}, false, nil
	}
	entry.lastSeen = time.Now().UTC()
	s.items[id] = entry
	return domain.CloneSession(entry.session), true, nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *memorySessionStore) sweepLocked() {
	now := time.Now().UTC()
	for id, entry := range s.items {
		if now.Sub(entry.lastSeen) > s.idleTTL {
			delete(s.items, id)
		}
	}
}

type redisSessionStore struct {
	client  *redis.Client
	prefix  string
	idleTTL time.Duration
}

// NewRedisSessionStore stores sessions as JSON under a key TTL, so idle
// eviction is delegated to redis itself.
func NewRedisSessionStore(client *redis.Client, idleTTL time.Duration) SessionStore {
	if client == nil {
		return nil
	}
	if idleTTL <= 0 {
		idleTTL = time.Hour
	}
	return &redisSessionStore{
		client:  client,
		prefix:  "assess:session:",
		idleTTL: idleTTL,
	}
}

func (s *redisSessionStore) Put(ctx context.Context, session domain.Session) error {
	if session.ID == "" {
		return errors.New("session id is empty")
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+session.ID, payload, s.idleTTL).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, id string) (domain.Session, bool, error) {
	payload, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}
	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return domain.Session{}, false, err
	}
	// Refresh the idle TTL on read.
	_ = s.client.Expire(ctx, s.prefix+id, s.idleTTL).Err()
	return session, true, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.prefix+id).Err()
}
