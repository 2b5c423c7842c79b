// Package session keeps bounded, in-memory conversation logs keyed by
// session id. History survives for the process lifetime only.
package session

import (
	"hash/fnv"
	"sync"

	"github.com/omkarsat/lumi-agent/internal/domain"
)

const (
	defaultMaxMessages = 20
	shardCount         = 16
)

// Store is a sharded in-memory domain.SessionStore. Turns for the same
// session are serialized by the host transport; the shard locks make the
// map safe for concurrent turns across distinct sessions.
type Store struct {
	maxMessages int
	shards      [shardCount]*shard
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Turn
}

// NewStore creates a session store retaining at most maxMessages turns
// per session, oldest evicted first.
func NewStore(maxMessages int) *Store {
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}
	s := &Store{maxMessages: maxMessages}
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[string][]domain.Turn)}
	}
	return s
}

var _ domain.SessionStore = (*Store)(nil)

func (s *Store) shardFor(sessionID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return s.shards[h.Sum32()%shardCount]
}

// Append adds a turn to the session, creating the session lazily and
// evicting the oldest turns beyond the retention bound.
func (s *Store) Append(sessionID string, role domain.Role, text string) {
	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	turns := append(sh.sessions[sessionID], domain.Turn{Role: role, Text: text})
	if excess := len(turns) - s.maxMessages; excess > 0 {
		turns = append([]domain.Turn(nil), turns[excess:]...)
	}
	sh.sessions[sessionID] = turns
}

// History returns a copy of the session's turns in order. An unknown
// session yields an empty history.
func (s *Store) History(sessionID string) []domain.Turn {
	sh := s.shardFor(sessionID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	turns := sh.sessions[sessionID]
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}

// Clear drops the session's history entirely.
func (s *Store) Clear(sessionID string) {
	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.sessions, sessionID)
}
