package rpc

import (
	"sync"
	"time"

	"github.com/dancingmadman2/raydium-bot/internal/model"
)

// Endpoints picks which RPC node serves the next request. Selection is
// least-recently-used; a node reused inside the cooldown window is skipped
// in favor of a rotating cursor so no single node gets hammered.
type Endpoints struct {
	mu       sync.Mutex
	set      []model.Endpoint
	cooldown time.Duration
	cursor   int
	now      func() time.Time
}

// NewEndpoints builds a selector over the given URLs. An empty list falls
// back to the single fallback URL from configuration.
func NewEndpoints(urls []string, fallback string, cooldown time.Duration) *Endpoints {
	if len(urls) == 0 {
		urls = []string{fallback}
	}
	set := make([]model.Endpoint, len(urls))
	for i, u := range urls {
		set[i] = model.Endpoint{URL: u}
	}
	return &Endpoints{set: set, cooldown: cooldown, now: time.Now}
}

// Next returns the endpoint to use for the next request and marks it used.
func (e *Endpoints) Next() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	lru := 0
	for i := range e.set {
		if e.set[i].LastUsedAt.Before(e.set[lru].LastUsedAt) {
			lru = i
		}
	}

	idx := lru
	if now.Sub(e.set[lru].LastUsedAt) < e.cooldown {
		e.cursor = (e.cursor + 1) % len(e.set)
		idx = e.cursor
	}

	e.set[idx].LastUsedAt = now
	return e.set[idx].URL
}

// URLs returns the configured endpoint URLs, for logging.
func (e *Endpoints) URLs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	urls := make([]string, len(e.set))
	for i := range e.set {
		urls[i] = e.set[i].URL
	}
	return urls
}
