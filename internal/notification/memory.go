package notification

import (
	"context"
	"sync"
	"time"
)

type dedupKey struct {
	requestID int64
	kind      string
}

// MemoryStore is an in-memory Store used in tests. It applies the same
// (request_id, kind) dedup rule as the SQL store.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	seen   map[dedupKey]struct{}
	items  []*Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seen: make(map[dedupKey]struct{}),
	}
}

func (s *MemoryStore) Record(_ context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dedupKey{requestID: n.RequestID, kind: n.Kind}
	if _, dup := s.seen[key]; dup {
		return nil
	}
	s.seen[key] = struct{}{}

	s.nextID++
	stored := *n
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	s.items = append(s.items, &stored)
	return nil
}

func (s *MemoryStore) ListForRecipient(_ context.Context, recipientID int64, limit, offset int) ([]*Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*Notification
	// Newest first, matching the SQL store's ordering.
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].RecipientID == recipientID {
			copied := *s.items[i]
			matched = append(matched, &copied)
		}
	}

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MemoryStore) MarkRead(_ context.Context, id, recipientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.items {
		if n.ID == id && n.RecipientID == recipientID {
			n.Read = true
			return nil
		}
	}
	return ErrNotificationNotFound
}
