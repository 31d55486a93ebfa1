package conversation

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// stripedLock serializes steps of the same conversation without a lock per conversation
type stripedLock struct {
	stripes [lockStripes]sync.Mutex
}

func newStripedLock() *stripedLock {
	return &stripedLock{}
}

func (l *stripedLock) lock(conversationID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(conversationID))
	mu := &l.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
