package store

import (
	"strconv"
	"sync"
	"time"
)

// idGen issues unique, time-derived resource IDs.
// IDs are unix milliseconds bumped past the last issued value, so two
// calls within the same millisecond still produce distinct, increasing IDs.
type idGen struct {
	mu   sync.Mutex
	last int64
}

func (g *idGen) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= g.last {
		now = g.last + 1
	}
	g.last = now
	return strconv.FormatInt(now, 10)
}
