package handlers

import "sync"

// seenUpdates is a bounded set of recently processed Telegram update IDs.
// Webhook delivery can redeliver the same update; without this a redelivered
// link would trigger a second download.
type seenUpdates struct {
	mu       sync.Mutex
	capacity int
	order    []int
	set      map[int]struct{}
}

func newSeenUpdates(capacity int) *seenUpdates {
	return &seenUpdates{
		capacity: capacity,
		set:      make(map[int]struct{}, capacity),
	}
}

// Seen records id and reports whether it was already present. Oldest entries
// are evicted once capacity is reached; update IDs are monotonically
// assigned, so a small window is enough.
func (s *seenUpdates) Seen(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.set[id]; ok {
		return true
	}

	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.set, oldest)
	}
	s.order = append(s.order, id)
	s.set[id] = struct{}{}
	return false
}
