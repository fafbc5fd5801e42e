package services

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// stripedLocks serializes work per session id without a map of mutexes
// that would need its own cleanup.
type stripedLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *stripedLocks) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	mu := &l.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
