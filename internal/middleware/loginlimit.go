// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// limiterEntry tracks failed-attempt timestamps for a single client.
type limiterEntry struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// LoginLimiter throttles the login endpoint per client IP using a sliding
// window over FAILED attempts only. A successful login clears the client's
// record, so legitimate users who eventually type the right password are
// not locked out of their next session.
type LoginLimiter struct {
	mu      sync.RWMutex
	clients map[string]*limiterEntry
	limit   int           // max failed attempts per window
	window  time.Duration // sliding window duration
	stopCh  chan struct{}
}

// NewLoginLimiter creates a limiter that allows limit failed attempts per
// window. It starts a background goroutine to clean up expired entries.
func NewLoginLimiter(limit int, window time.Duration) *LoginLimiter {
	ll := &LoginLimiter{
		clients: make(map[string]*limiterEntry),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}

	// Periodic cleanup of expired entries every 5 minutes.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ll.cleanup()
			case <-ll.stopCh:
				return
			}
		}
	}()

	return ll
}

// Stop terminates the background cleanup goroutine.
func (ll *LoginLimiter) Stop() {
	close(ll.stopCh)
}

// entry returns the limiter entry for a key, creating it if needed.
func (ll *LoginLimiter) entry(key string) *limiterEntry {
	ll.mu.RLock()
	e, exists := ll.clients[key]
	ll.mu.RUnlock()
	if exists {
		return e
	}

	ll.mu.Lock()
	defer ll.mu.Unlock()
	// Double-check after acquiring write lock.
	if e, exists = ll.clients[key]; !exists {
		e = &limiterEntry{}
		ll.clients[key] = e
	}
	return e
}

// Allowed reports whether the client identified by the request is still
// under the failed-attempt limit.
func (ll *LoginLimiter) Allowed(r *http.Request) bool {
	e := ll.entry(ClientIP(r))

	cutoff := time.Now().Add(-ll.window)

	e.mu.Lock()
	defer e.mu.Unlock()

	// Drop expired timestamps before counting.
	valid := e.timestamps[:0]
	for _, ts := range e.timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	e.timestamps = valid

	return len(e.timestamps) < ll.limit
}

// RecordFailure registers a failed login attempt for the client.
func (ll *LoginLimiter) RecordFailure(r *http.Request) {
	e := ll.entry(ClientIP(r))

	e.mu.Lock()
	e.timestamps = append(e.timestamps, time.Now())
	e.mu.Unlock()
}

// Reset clears the client's failed-attempt record after a successful login.
func (ll *LoginLimiter) Reset(r *http.Request) {
	ll.mu.Lock()
	delete(ll.clients, ClientIP(r))
	ll.mu.Unlock()
}

// cleanup removes entries with no recent activity.
func (ll *LoginLimiter) cleanup() {
	cutoff := time.Now().Add(-ll.window)

	ll.mu.Lock()
	defer ll.mu.Unlock()

	for key, e := range ll.clients {
		e.mu.Lock()
		hasRecent := false
		for _, ts := range e.timestamps {
			if ts.After(cutoff) {
				hasRecent = true
				break
			}
		}
		e.mu.Unlock()

		if !hasRecent {
			delete(ll.clients, key)
		}
	}
}

// ClientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func ClientIP(r *http.Request) string {
	// Check X-Forwarded-For first (may contain multiple IPs).
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first (leftmost) IP, the original client.
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP.
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to RemoteAddr (strip port).
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
