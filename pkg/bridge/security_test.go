package bridge

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokeClosesCapabilityWindow(t *testing.T) {
	sc := NewSecurityContext()
	sessionID, _ := sc.CreateSession("u1", []string{"SUBMIT_GRAPH"})

	require.True(t, sc.HasCapability(sessionID, CapSubmitGraph))
	sc.Revoke(sessionID)
	assert.False(t, sc.HasCapability(sessionID, CapSubmitGraph))
	assert.Nil(t, sc.Lookup(sessionID))
	assert.Equal(t, 0, sc.SessionCount())
}

func TestSessionIDsAreUnique(t *testing.T) {
	sc := NewSecurityContext()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, _ := sc.CreateSession("u1", nil)
		require.False(t, seen[id])
		seen[id] = true
	}
	assert.Equal(t, 100, sc.SessionCount())
}

func TestConcurrentCreateAndRevoke(t *testing.T) {
	sc := NewSecurityContext()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id, _ := sc.CreateSession("u1", []string{"READ_LOGS"})
				sc.HasCapability(id, CapReadLogs)
				sc.Revoke(id)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, sc.SessionCount())
}
