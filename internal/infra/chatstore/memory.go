package chatstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/advisor-assistant/internal/domain/chat"
	"github.com/yanqian/advisor-assistant/pkg/util"
)

type session struct {
	turns    []chat.Turn
	lastSeen time.Time
}

// MemoryStore keeps chat logs in process memory. Sessions idle longer than
// ttl are dropped on the next write.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      util.Clock
	sessions map[string]*session
}

// NewMemoryStore constructs the store; ttl <= 0 keeps sessions forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      util.NowUTC,
		sessions: make(map[string]*session),
	}
}

// Append implements chat.Store.
func (s *MemoryStore) Append(_ context.Context, sessionID string, turns ...chat.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.evictLocked(now)
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}
	sess.turns = append(sess.turns, turns...)
	sess.lastSeen = now
	return nil
}

// Recent implements chat.Store.
func (s *MemoryStore) Recent(_ context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || s.expired(sess, s.now()) {
		return []chat.Turn{}, nil
	}
	turns := sess.turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]chat.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (s *MemoryStore) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}

func (s *MemoryStore) evictLocked(now time.Time) {
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
}

var _ chat.Store = (*MemoryStore)(nil)
