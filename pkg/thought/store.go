// Package thought keeps the kernel's short-lived belief records. A slot is
// a timestamped (intent, confidence) pair that expires 30 seconds after
// creation unless resolved first. Expiry is logical, evaluated against a
// caller-supplied clock reading, so the store is deterministic and
// testable without real time or background timers.
package thought

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jeantrail/kernel/pkg/contracts"
)

// SlotTTL is how long a pending slot stays live before logical expiry.
const SlotTTL = 30000 * time.Millisecond

// Status is the lifecycle state of a slot. Transitions are one-way:
// pending→expired or pending→resolved, never backward.
type Status string

const (
	StatusPending  Status = "pending"
	StatusExpired  Status = "expired"
	StatusResolved Status = "resolved"
)

// Slot is a single timestamped belief.
type Slot struct {
	ID         string           `json:"id"`
	Intent     contracts.Intent `json:"intent"`
	Confidence float64          `json:"confidence"`
	CreatedAt  time.Time        `json:"created_at"`
	ExpiresAt  time.Time        `json:"expires_at"`
	Status     Status           `json:"status"`
}

// Stats is a lock-free snapshot of the pending population, shaped for the
// decision policy's inputs.
type Stats struct {
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// ErrUnknownSlot is returned when resolving a slot ID the store has never seen.
var ErrUnknownSlot = errors.New("thought: unknown slot")

var slotCounter atomic.Uint64

// NewSlot creates a pending slot with confidence clamped to [0,1] and a
// per-process unique ID. The supplied now drives both CreatedAt and the
// expiry deadline.
func NewSlot(intent contracts.Intent, confidence float64, now time.Time) Slot {
	if confidence != confidence { // NaN
		confidence = 0
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	n := slotCounter.Add(1)
	return Slot{
		ID:         strconv.FormatInt(now.UnixMilli(), 36) + "-" + strconv.FormatUint(n, 36),
		Intent:     intent,
		Confidence: confidence,
		CreatedAt:  now,
		ExpiresAt:  now.Add(SlotTTL),
		Status:     StatusPending,
	}
}

// Store holds recent slots under a single-writer discipline. All mutation
// happens under one mutex; reads return copies so callers never observe a
// slot mid-transition.
type Store struct {
	mu    sync.RWMutex
	slots []Slot
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a slot. The slot's status is forced to pending: a store only
// ever accepts live beliefs.
func (s *Store) Add(slot Slot) {
	slot.Status = StatusPending
	s.mu.Lock()
	s.slots = append(s.slots, slot)
	s.mu.Unlock()
}

// Observe classifies-and-records in one step: it creates a slot for the
// given intent/confidence at now and returns its ID.
func (s *Store) Observe(intent contracts.Intent, confidence float64, now time.Time) string {
	slot := NewSlot(intent, confidence, now)
	s.mu.Lock()
	s.slots = append(s.slots, slot)
	s.mu.Unlock()
	return slot.ID
}

// ExpireOld transitions every pending slot whose deadline has passed at
// now to expired. Resolved slots are untouched.
func (s *Store) ExpireOld(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.slots {
		if s.slots[i].Status == StatusPending && s.slots[i].ExpiresAt.Before(now) {
			s.slots[i].Status = StatusExpired
		}
	}
}

// Resolve transitions a pending slot to resolved. Resolving an already
// expired or resolved slot is a no-op (the transition graph is one-way).
func (s *Store) Resolve(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.slots {
		if s.slots[i].ID == id {
			if s.slots[i].Status == StatusPending {
				s.slots[i].Status = StatusResolved
			}
			return nil
		}
	}
	return ErrUnknownSlot
}

// Active returns copies of all pending slots.
func (s *Store) Active() []Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		if slot.Status == StatusPending {
			out = append(out, slot)
		}
	}
	return out
}

// Stats aggregates the pending slots into decision-policy inputs. An empty
// store reports a zero average, which the decision policy maps to hold.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	sum := 0.0
	for _, slot := range s.slots {
		if slot.Status == StatusPending {
			count++
			sum += slot.Confidence
		}
	}
	if count == 0 {
		return Stats{}
	}
	return Stats{Count: count, AvgConfidence: sum / float64(count)}
}

// Compact drops expired and resolved slots, bounding memory across long
// sessions. Pending slots are preserved in insertion order.
func (s *Store) Compact() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.slots[:0]
	for _, slot := range s.slots {
		if slot.Status == StatusPending {
			kept = append(kept, slot)
		}
	}
	s.slots = kept
}
