package spamcheck

import (
	"container/ring"
	"sync"
)

// LastChecks keeps track of last N checks, thread-safe.
type LastChecks struct {
	checks *ring.Ring
	size   int
	lock   sync.RWMutex
}

// NewLastChecks creates new checks tracker
func NewLastChecks(size int) *LastChecks {
	// minimum size is 1
	if size < 1 {
		size = 1
	}
	return &LastChecks{
		checks: ring.New(size),
		size:   size,
	}
}

// Push adds new check to the history
func (h *LastChecks) Push(c Check) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.checks.Value = c
	h.checks = h.checks.Next()
}

// Last returns up to n last checks in chronological order (oldest to newest)
func (h *LastChecks) Last(n int) []Check {
	if n < 1 {
		return []Check{}
	}

	h.lock.RLock()
	defer h.lock.RUnlock()

	if n > h.size {
		n = h.size
	}

	result := make([]Check, 0, h.size)
	h.checks.Do(func(v any) {
		if c, ok := v.(Check); ok {
			result = append(result, c)
		}
	})

	if len(result) > n {
		result = result[len(result)-n:]
	}
	return result
}

// Size returns the size of checks history
func (h *LastChecks) Size() int {
	return h.size
}
