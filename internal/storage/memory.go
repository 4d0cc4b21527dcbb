package storage

import (
	"context"
	"sync"

	"ammcore/internal/model"
)

// MemoryStore holds a pool snapshot and its receipts in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	info     model.PoolInfo
	ok       bool
	receipts []model.Receipt
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadPool(_ context.Context) (model.PoolInfo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info, s.ok, nil
}

func (s *MemoryStore) SavePool(_ context.Context, expected *model.PoolInfo, info model.PoolInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkExpected(expected, s.info, s.ok); err != nil {
		return err
	}
	s.info = info
	s.ok = true
	return nil
}

func (s *MemoryStore) PutReceipts(_ context.Context, receipts []model.Receipt) error {
	s.mu.Lock()
	s.receipts = append(s.receipts, receipts...)
	s.mu.Unlock()
	return nil
}

// Receipts returns a copy of the recorded receipts.
func (s *MemoryStore) Receipts() []model.Receipt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Receipt, len(s.receipts))
	copy(out, s.receipts)
	return out
}
