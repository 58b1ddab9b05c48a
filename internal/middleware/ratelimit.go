// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// hits is the request history of one client, oldest first.
type hits struct {
	mu    sync.Mutex
	times []time.Time
}

// prune drops timestamps at or before cutoff and reports how many remain.
func (h *hits) prune(cutoff time.Time) int {
	i := 0
	for i < len(h.times) && !h.times[i].After(cutoff) {
		i++
	}
	h.times = append(h.times[:0], h.times[i:]...)
	return len(h.times)
}

// RateLimiter allows each client IP a fixed number of requests per sliding
// window. It guards comment submission and the sign-in callback.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*hits
	limit   int
	window  time.Duration
	now     func() time.Time

	done chan struct{}
	once sync.Once
}

// NewRateLimiter returns a limiter allowing limit requests per window and
// starts a janitor that forgets idle clients. Call Stop to end it.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*hits),
		limit:   limit,
		window:  window,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go rl.janitor(max(window, time.Minute))
	return rl
}

// Stop ends the janitor. It may be called more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) janitor(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// allow records a request from key. When the key is over its limit it
// returns false and how long until the oldest request leaves the window.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	h, ok := rl.clients[key]
	if !ok {
		h = &hits{}
		rl.clients[key] = h
	}
	rl.mu.Unlock()

	now := rl.now()

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := h.prune(now.Add(-rl.window)); n >= rl.limit {
		if n == 0 {
			return false, rl.window
		}
		return false, h.times[0].Add(rl.window).Sub(now)
	}
	h.times = append(h.times, now)
	return true, 0
}

// sweep forgets clients with no request inside the window.
func (rl *RateLimiter) sweep() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, h := range rl.clients {
		h.mu.Lock()
		idle := h.prune(cutoff) == 0
		h.mu.Unlock()
		if idle {
			delete(rl.clients, key)
		}
	}
}

// Middleware answers 429 with a Retry-After header once the client IP is
// over its limit. API paths get a JSON body.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := rl.allow(clientIP(r))
		if ok {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeJSONError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	})
}

// clientIP is the host part of RemoteAddr. Forwarding headers are not
// read here; when the server sits behind a trusted proxy the router puts
// chi's RealIP in front, which rewrites RemoteAddr from them.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
