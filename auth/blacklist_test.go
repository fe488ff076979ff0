//go:build unit
// +build unit

package auth

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlacklist_RevokeAndCheck(t *testing.T) {
	b := NewBlacklist(time.Hour)
	defer b.Close()

	assert.False(t, b.IsRevoked("jti-1"))

	b.Revoke("jti-1", time.Now().Add(time.Hour))
	assert.True(t, b.IsRevoked("jti-1"))
	assert.False(t, b.IsRevoked("jti-2"))
}

// TestBlacklist_ExpiredEntriesIgnored: a revocation past its token's expiry
// no longer blocks anything, even before the sweeper runs.
func TestBlacklist_ExpiredEntriesIgnored(t *testing.T) {
	b := NewBlacklist(time.Hour)
	defer b.Close()

	b.Revoke("stale", time.Now().Add(-time.Minute))
	assert.False(t, b.IsRevoked("stale"))
}

func TestBlacklist_SweeperEvicts(t *testing.T) {
	b := NewBlacklist(time.Hour)
	defer b.Close()

	b.Revoke("short", time.Now().Add(50*time.Millisecond))
	b.Revoke("long", time.Now().Add(time.Hour))
	assert.Equal(t, 2, b.Len())

	time.Sleep(60 * time.Millisecond)
	b.evictExpired(time.Now())

	assert.Equal(t, 1, b.Len())
	assert.True(t, b.IsRevoked("long"))
}

// TestBlacklist_ConcurrentAccess exercises simultaneous revocations and
// membership checks from many goroutines.
func TestBlacklist_ConcurrentAccess(t *testing.T) {
	b := NewBlacklist(time.Hour)
	defer b.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			b.Revoke(fmt.Sprintf("jti-%d", n), time.Now().Add(time.Hour))
		}(i)
		go func(n int) {
			defer wg.Done()
			b.IsRevoked(fmt.Sprintf("jti-%d", n))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, b.Len())
}
