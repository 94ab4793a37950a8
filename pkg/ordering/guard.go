package ordering

import (
	"fmt"
	"sync"
)

// Guard serializes reorder operations per bucket. The load-plan-persist
// sequence is not atomic on its own; holding the bucket lock across it
// prevents concurrent moves in the same year from losing updates. Mutexes
// are retained for process lifetime; the key space is bounded by the number
// of distinct years per entity kind.
type Guard struct {
	mu      sync.Mutex
	buckets map[string]*sync.Mutex
}

func NewGuard() *Guard {
	return &Guard{buckets: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given kind/bucket pair and returns the
// unlock function.
func (g *Guard) Lock(kind string, bucket int) func() {
	key := fmt.Sprintf("%s:%d", kind, bucket)

	g.mu.Lock()
	m, ok := g.buckets[key]
	if !ok {
		m = &sync.Mutex{}
		g.buckets[key] = m
	}
	g.mu.Unlock()

	m.Lock()
	return m.Unlock
}
