package scanner

import (
	"sync"
	"time"
)

// Debouncer suppresses repeat reads of the same QR payload inside a
// short window. Hardware scanners fire several times per second while
// the code is in frame; without this every scan after the first would
// report "already used" to the gate staff.
type Debouncer struct {
	mu       sync.Mutex
	window   time.Duration
	lastSeen map[string]time.Time
	nowFn    func() time.Time
}

func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:   window,
		lastSeen: make(map[string]time.Time),
		nowFn:    time.Now,
	}
}

// Allow reports whether the payload should be processed, and records
// the attempt. A payload is allowed once per window.
func (d *Debouncer) Allow(payload string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.nowFn()
	if last, ok := d.lastSeen[payload]; ok && now.Sub(last) < d.window {
		return false
	}
	d.lastSeen[payload] = now

	// drop stale entries so the map does not grow with every ticket scanned
	if len(d.lastSeen) > 1024 {
		for key, seen := range d.lastSeen {
			if now.Sub(seen) >= d.window {
				delete(d.lastSeen, key)
			}
		}
	}
	return true
}
