package store

import (
	"context"
	"errors"
	"sync"

	"github.com/jeantrail/kernel/pkg/contracts"
)

// ErrReceiptNotFound is returned for unknown receipt IDs.
var ErrReceiptNotFound = errors.New("receipt not found")

// ReceiptStore persists execution receipts. Receipts are append-only: a
// store never offers update or delete.
type ReceiptStore interface {
	Store(ctx context.Context, r *contracts.ExecutionReceipt) error
	Get(ctx context.Context, receiptID string) (*contracts.ExecutionReceipt, error)
	List(ctx context.Context, limit int) ([]*contracts.ExecutionReceipt, error)
}

// MemoryReceiptStore keeps receipts in process memory, newest last.
type MemoryReceiptStore struct {
	mu       sync.RWMutex
	receipts []*contracts.ExecutionReceipt
	byID     map[string]*contracts.ExecutionReceipt
}

// NewMemoryReceiptStore returns an empty in-memory store.
func NewMemoryReceiptStore() *MemoryReceiptStore {
	return &MemoryReceiptStore{byID: make(map[string]*contracts.ExecutionReceipt)}
}

func (s *MemoryReceiptStore) Store(ctx context.Context, r *contracts.ExecutionReceipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// copy so callers cannot mutate stored evidence afterwards
	val := *r
	s.receipts = append(s.receipts, &val)
	s.byID[val.ID] = &val
	return nil
}

func (s *MemoryReceiptStore) Get(ctx context.Context, receiptID string) (*contracts.ExecutionReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[receiptID]
	if !ok {
		return nil, ErrReceiptNotFound
	}
	val := *r
	return &val, nil
}

func (s *MemoryReceiptStore) List(ctx context.Context, limit int) ([]*contracts.ExecutionReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.receipts)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*contracts.ExecutionReceipt, 0, n)
	// newest first
	for i := len(s.receipts) - 1; i >= 0 && len(out) < n; i-- {
		val := *s.receipts[i]
		out = append(out, &val)
	}
	return out, nil
}
