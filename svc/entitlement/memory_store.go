package entitlement

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and single-node development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]*Record)}
}

func (s *MemoryStore) Get(_ context.Context, userID uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Upsert(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCustomerUnique(rec); err != nil {
		return err
	}
	s.put(rec)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.UserID]; !ok {
		return ErrRecordNotFound
	}
	if err := s.checkCustomerUnique(rec); err != nil {
		return err
	}
	s.put(rec)
	return nil
}

func (s *MemoryStore) FindByCustomerID(_ context.Context, customerID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if customerID == "" {
		return nil, ErrRecordNotFound
	}
	for _, rec := range s.records {
		if rec.CustomerID == customerID {
			return rec.Clone(), nil
		}
	}
	return nil, ErrRecordNotFound
}

// Must be called with lock held.
func (s *MemoryStore) checkCustomerUnique(rec *Record) error {
	if rec.CustomerID == "" {
		return nil
	}
	for id, other := range s.records {
		if id != rec.UserID && other.CustomerID == rec.CustomerID {
			return ErrConflict
		}
	}
	return nil
}

// Must be called with lock held.
func (s *MemoryStore) put(rec *Record) {
	next := rec.Clone()
	if prev, ok := s.records[rec.UserID]; ok {
		if prev.CustomerID != "" {
			next.CustomerID = prev.CustomerID
		}
		if !prev.CreatedAt.IsZero() {
			next.CreatedAt = prev.CreatedAt
		}
	}
	s.records[rec.UserID] = next
}
