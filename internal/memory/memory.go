// Package memory holds bounded, in-process conversation windows. Nothing
// here survives a restart.
package memory

import (
	"sync"
	"time"

	"github.com/hashchat-ai/ledger-assistant/internal/model"
	"github.com/hashchat-ai/ledger-assistant/pkg/metrics"
)

const (
	// DefaultMaxTurns bounds each conversation window.
	DefaultMaxTurns = 20

	// DefaultTTL is how long an idle window is retained.
	DefaultTTL = 30 * time.Minute
)

type window struct {
	turns    []model.Turn
	lastUsed time.Time
}

// Store keeps one bounded turn window per conversation id. Appends to the
// same id are serialized; idle windows expire after the TTL.
type Store struct {
	mu       sync.Mutex
	windows  map[string]*window
	maxTurns int
	ttl      time.Duration
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxTurns sets the per-conversation turn bound.
func WithMaxTurns(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxTurns = n
		}
	}
}

// WithTTL sets the idle expiry for conversation windows.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// withClock overrides the time source, for tests.
func withClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a conversation memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		windows:  make(map[string]*window),
		maxTurns: DefaultMaxTurns,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds a turn to the conversation's window, evicting the oldest
// turn once the bound is exceeded. Expired sibling windows are swept here
// rather than by a background task.
func (s *Store) Append(conversationID string, turn model.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	w, ok := s.windows[conversationID]
	if !ok {
		w = &window{}
		s.windows[conversationID] = w
	}

	w.turns = append(w.turns, turn)
	if len(w.turns) > s.maxTurns {
		w.turns = w.turns[len(w.turns)-s.maxTurns:]
	}
	w.lastUsed = now

	metrics.ConversationWindows.Set(float64(len(s.windows)))
}

// Window returns the ordered turns for a conversation, oldest first. An
// expired or unknown conversation yields an empty window.
func (s *Store) Window(conversationID string) []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[conversationID]
	if !ok {
		return nil
	}

	now := s.now()
	if now.Sub(w.lastUsed) > s.ttl {
		delete(s.windows, conversationID)
		metrics.ConversationWindows.Set(float64(len(s.windows)))
		return nil
	}
	w.lastUsed = now

	out := make([]model.Turn, len(w.turns))
	copy(out, w.turns)
	return out
}

// Len reports the number of retained windows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func (s *Store) sweepLocked(now time.Time) {
	for id, w := range s.windows {
		if now.Sub(w.lastUsed) > s.ttl {
			delete(s.windows, id)
		}
	}
}
