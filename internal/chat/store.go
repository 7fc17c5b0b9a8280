package chat

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds live sessions in process memory. Sessions are created on first
// visit, discarded on reset, and swept after sitting idle for idleTimeout.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	now         func() time.Time
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewStore(idleTimeout time.Duration) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		now:         time.Now,
		stopChan:    make(chan struct{}),
	}
}

// Get returns the session for id, or a fresh one when id is unknown.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.touch(s.now())
		return sess
	}

	sess := newSession(uuid.NewString(), s.now())
	s.sessions[sess.ID] = sess
	return sess
}

// Discard ends a session.
func (s *Store) Discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep discards sessions idle for longer than the timeout and reports how many.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.idleTimeout {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Start runs the idle sweeper until Stop is called.
func (s *Store) Start() {
	interval := s.idleTimeout / 4
	if interval < time.Second {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					log.Printf("Discarded %d idle chat sessions", n)
				}
			}
		}
	}()
}

func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}
