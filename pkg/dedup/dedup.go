// Package dedup drops duplicate message IDs seen within a TTL window.
// QoS 1 MQTT delivery means a reading can arrive more than once; the
// envelope ID makes the duplicates cheap to spot.
package dedup

import (
	"sync"
	"time"
)

type Deduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	cap  int
	seen map[string]time.Time // id -> expiry
}

func New(ttl time.Duration, cap int) *Deduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if cap <= 0 {
		cap = 10000
	}
	return &Deduper{ttl: ttl, cap: cap, seen: make(map[string]time.Time, cap)}
}

// FirstSeen records id and reports whether this is its first appearance
// within the TTL window. Empty IDs always pass.
func (d *Deduper) FirstSeen(id string) bool {
	if id == "" {
		return true
	}
	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()

	if exp, ok := d.seen[id]; ok && now.Before(exp) {
		return false
	}
	d.seen[id] = now.Add(d.ttl)

	// Over cap: shed expired entries first, then whatever the map
	// iterates over. Exact LRU is not worth the bookkeeping here.
	if len(d.seen) > d.cap {
		for k, exp := range d.seen {
			if now.After(exp) {
				delete(d.seen, k)
			}
			if len(d.seen) <= d.cap {
				break
			}
		}
		for k := range d.seen {
			if len(d.seen) <= d.cap {
				break
			}
			if k != id {
				delete(d.seen, k)
			}
		}
	}
	return true
}
