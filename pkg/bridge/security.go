package bridge

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
)

// AdminClientID is the only client identity whose ADMIN_OVERRIDE request
// reaches the whitelist check at all. The whitelist omits ADMIN_OVERRIDE,
// so no session ever holds it.
const AdminClientID = "admin-user"

// capabilityWhitelist is the fixed set of grantable capabilities.
var capabilityWhitelist = map[Capability]bool{
	CapSubmitGraph:     true,
	CapReadLogs:        true,
	CapCancelExecution: true,
}

// Session is a bridge-authenticated caller context. Capabilities never
// grow after creation.
type Session struct {
	SessionID    string
	ClientID     string
	Capabilities map[Capability]bool
}

// SecurityContext owns the session registry for one bridge instance. It
// is injected, never a package-level singleton, so multiple bridges are
// testable in isolation. Lookups and capability checks happen under the
// same lock as creation/eviction: there is no window where a revoked
// session can still pass a check.
type SecurityContext struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSecurityContext returns an empty registry.
func NewSecurityContext() *SecurityContext {
	return &SecurityContext{sessions: make(map[string]*Session)}
}

// CreateSession filters the requested capabilities against the whitelist
// and the admin gate, then registers the session. The granted set is
// always a subset of the request, never a superset.
func (sc *SecurityContext) CreateSession(clientID string, requested []string) (sessionID string, granted []Capability) {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	sessionID = hex.EncodeToString(buf)

	caps := make(map[Capability]bool, len(requested))
	granted = make([]Capability, 0, len(requested))
	for _, raw := range requested {
		c := Capability(raw)
		if c == CapAdminOverride && clientID != AdminClientID {
			continue
		}
		if capabilityWhitelist[c] && !caps[c] {
			caps[c] = true
			granted = append(granted, c)
		}
	}

	sc.mu.Lock()
	sc.sessions[sessionID] = &Session{
		SessionID:    sessionID,
		ClientID:     clientID,
		Capabilities: caps,
	}
	sc.mu.Unlock()
	return sessionID, granted
}

// Lookup returns the session for id, or nil if unknown.
func (sc *SecurityContext) Lookup(sessionID string) *Session {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.sessions[sessionID]
}

// HasCapability reports whether the session exists and holds c, as one
// atomic check.
func (sc *SecurityContext) HasCapability(sessionID string, c Capability) bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	s, ok := sc.sessions[sessionID]
	return ok && s.Capabilities[c]
}

// Revoke evicts a session. Subsequent lookups and capability checks fail
// immediately.
func (sc *SecurityContext) Revoke(sessionID string) {
	sc.mu.Lock()
	delete(sc.sessions, sessionID)
	sc.mu.Unlock()
}

// SessionCount reports the number of live sessions.
func (sc *SecurityContext) SessionCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.sessions)
}
