// Package store provides the kernel's append-only evidence storage:
// a hash-chained audit log (the source for bridge audit-log reads) and
// pluggable persistence for execution receipts.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEntryNotFound = errors.New("audit entry not found")
	ErrChainBroken   = errors.New("audit hash chain is broken")
)

// AuditLevel categorizes entries for bridge-side filtering.
type AuditLevel string

const (
	AuditInfo  AuditLevel = "info"
	AuditWarn  AuditLevel = "warn"
	AuditError AuditLevel = "error"
)

// AuditEntry is a single immutable record. EntryHash covers the previous
// hash, so any retroactive edit breaks the chain.
type AuditEntry struct {
	EntryID      string          `json:"entry_id"`
	Sequence     uint64          `json:"sequence"`
	Timestamp    time.Time       `json:"timestamp"`
	Level        AuditLevel      `json:"level"`
	Subject      string          `json:"subject"`
	Action       string          `json:"action"`
	Payload      json.RawMessage `json:"payload"`
	PayloadHash  string          `json:"payload_hash"`
	PreviousHash string          `json:"previous_hash"`
	EntryHash    string          `json:"entry_hash"`
}

// AuditStore is an append-only audit log with hash chaining. A single
// store instance is shared by the bridge and the kernel; writes serialize
// under the mutex, queries take read locks.
type AuditStore struct {
	mu        sync.RWMutex
	entries   []*AuditEntry
	entryByID map[string]*AuditEntry
	sequence  uint64
	chainHead string
}

// NewAuditStore creates an empty store with a genesis chain head.
func NewAuditStore() *AuditStore {
	return &AuditStore{
		entryByID: make(map[string]*AuditEntry),
		chainHead: "genesis",
	}
}

// Append records a new entry. The payload is serialized once and hashed;
// the entry hash chains onto the current head.
func (s *AuditStore) Append(level AuditLevel, subject, action string, payload any) (*AuditEntry, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serialize audit payload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	entry := &AuditEntry{
		EntryID:      uuid.New().String(),
		Sequence:     s.sequence,
		Timestamp:    time.Now().UTC(),
		Level:        level,
		Subject:      subject,
		Action:       action,
		Payload:      payloadBytes,
		PayloadHash:  hashBytes(payloadBytes),
		PreviousHash: s.chainHead,
	}
	entryHash, err := computeEntryHash(entry)
	if err != nil {
		s.sequence--
		return nil, err
	}
	entry.EntryHash = entryHash
	s.chainHead = entryHash

	s.entries = append(s.entries, entry)
	s.entryByID[entry.EntryID] = entry
	return entry, nil
}

// Get retrieves an entry by ID.
func (s *AuditStore) Get(entryID string) (*AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entryByID[entryID]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// QueryFilter narrows Query results. Zero values match everything.
type QueryFilter struct {
	Level      AuditLevel
	Subject    string
	Since      *time.Time
	MaxResults int
}

func (f QueryFilter) matches(e *AuditEntry) bool {
	if f.Level != "" && e.Level != f.Level {
		return false
	}
	if f.Subject != "" && e.Subject != f.Subject {
		return false
	}
	if f.Since != nil && e.Timestamp.Before(*f.Since) {
		return false
	}
	return true
}

// Query returns entries matching the filter in append order.
func (s *AuditStore) Query(filter QueryFilter) []*AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*AuditEntry, 0)
	for _, e := range s.entries {
		if filter.matches(e) {
			results = append(results, e)
			if filter.MaxResults > 0 && len(results) >= filter.MaxResults {
				break
			}
		}
	}
	return results
}

// ChainHead returns the current head hash.
func (s *AuditStore) ChainHead() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chainHead
}

// Size returns the number of entries.
func (s *AuditStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// VerifyChain recomputes every hash and checks the links.
func (s *AuditStore) VerifyChain() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expectedPrev := "genesis"
	for i, entry := range s.entries {
		if entry.PreviousHash != expectedPrev {
			return fmt.Errorf("%w: entry %d has previous_hash %s, expected %s",
				ErrChainBroken, i, entry.PreviousHash, expectedPrev)
		}
		computed, err := computeEntryHash(entry)
		if err != nil {
			return fmt.Errorf("%w: entry %d hash computation failed: %w", ErrChainBroken, i, err)
		}
		if computed != entry.EntryHash {
			return fmt.Errorf("%w: entry %d hash mismatch", ErrChainBroken, i)
		}
		expectedPrev = entry.EntryHash
	}
	return nil
}

func hashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(h[:])
}

func computeEntryHash(entry *AuditEntry) (string, error) {
	hashable := struct {
		Sequence     uint64     `json:"sequence"`
		Timestamp    time.Time  `json:"timestamp"`
		Level        AuditLevel `json:"level"`
		Subject      string     `json:"subject"`
		Action       string     `json:"action"`
		PayloadHash  string     `json:"payload_hash"`
		PreviousHash string     `json:"previous_hash"`
	}{
		entry.Sequence, entry.Timestamp, entry.Level, entry.Subject,
		entry.Action, entry.PayloadHash, entry.PreviousHash,
	}
	data, err := json.Marshal(hashable)
	if err != nil {
		return "", fmt.Errorf("marshal entry for hashing: %w", err)
	}
	return hashBytes(data), nil
}
