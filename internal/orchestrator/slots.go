package orchestrator

import "sync"

// SessionSlots tracks which sessions have a download in flight. At most one
// slot can be held per session; the second concurrent request for the same
// session is rejected, not queued.
type SessionSlots struct {
	mu     sync.Mutex
	active map[int64]struct{}
}

func NewSessionSlots() *SessionSlots {
	return &SessionSlots{
		active: make(map[int64]struct{}),
	}
}

// TryAcquire takes the slot for sessionID if it is free. The check and the
// take happen under one lock so two concurrent callers can never both
// observe "no slot held".
func (s *SessionSlots) TryAcquire(sessionID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, held := s.active[sessionID]; held {
		return false
	}
	s.active[sessionID] = struct{}{}
	return true
}

// Release frees the slot for sessionID. Releasing a slot that is not held is
// a no-op.
func (s *SessionSlots) Release(sessionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, sessionID)
}

// Held reports whether sessionID currently holds a slot.
func (s *SessionSlots) Held(sessionID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, held := s.active[sessionID]
	return held
}
