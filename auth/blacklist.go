// File: auth/blacklist.go
package auth

import (
	"sync"
	"time"

	"go-field-ops/logger"
)

// Blacklist is the process-wide revocation set of token IDs. A token whose
// jti is present here is rejected even if it has not expired. Entries are
// kept until the token's own expiry; a background sweeper evicts the rest so
// the set stays bounded.
type Blacklist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // jti -> token expiry
	done    chan struct{}
	once    sync.Once
}

// NewBlacklist builds a Blacklist and starts its eviction sweeper.
// sweepEvery should be on the order of the access-token lifetime.
func NewBlacklist(sweepEvery time.Duration) *Blacklist {
	b := &Blacklist{
		revoked: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
	go b.sweep(sweepEvery)
	return b
}

// Revoke records a token ID until the given expiry. Revoking an already
// expired token is a no-op.
func (b *Blacklist) Revoke(jti string, expiresAt time.Time) {
	if jti == "" || !expiresAt.After(time.Now()) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = expiresAt
	logger.Info.Printf("blacklist: revoked token %s until %s", jti, expiresAt.Format(time.RFC3339))
}

// IsRevoked reports whether the token ID has been revoked and is still
// within its stated lifetime.
func (b *Blacklist) IsRevoked(jti string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	expiry, ok := b.revoked[jti]
	return ok && expiry.After(time.Now())
}

// Len returns the current number of tracked revocations.
func (b *Blacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.revoked)
}

// Close stops the eviction sweeper.
func (b *Blacklist) Close() {
	b.once.Do(func() { close(b.done) })
}

func (b *Blacklist) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-b.done:
			return
		case now := <-ticker.C:
			b.evictExpired(now)
		}
	}
}

func (b *Blacklist) evictExpired(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for jti, expiry := range b.revoked {
		if !expiry.After(now) {
			delete(b.revoked, jti)
		}
	}
}
