package utils

import (
	"sync"
	"time"
)

// Revoked token ids (jti) mapped to the time the token would have expired anyway.
var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

func BlacklistToken(jti string, until time.Time) {
	if jti == "" {
		return
	}
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[jti] = until
}

func IsTokenBlacklisted(jti string) bool {
	blacklistMutex.RLock()
	defer blacklistMutex.RUnlock()

	expiry, exists := blacklistedTokens[jti]
	return exists && time.Now().Before(expiry)
}

// PruneBlacklist drops entries whose tokens have expired and returns how many were removed.
func PruneBlacklist(now time.Time) int {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()

	removed := 0
	for jti, expiry := range blacklistedTokens {
		if now.After(expiry) {
			delete(blacklistedTokens, jti)
			removed++
		}
	}
	return removed
}
