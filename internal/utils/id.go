package utils

import (
	"container/heap"
	"sync"

	"github.com/google/uuid"
)

// NewSessionID returns a unique identifier for tagging a connection in logs.
func NewSessionID() string {
	return uuid.NewString()
}

// IDPool hands out the smallest free non-negative id and takes ids back on
// release, so ids are unique among live holders and reused afterwards.
type IDPool struct {
	mu    sync.Mutex
	next  int64
	freed idHeap
	inUse map[int64]struct{}
}

// NewIDPool creates an empty pool.
func NewIDPool() *IDPool {
	return &IDPool{inUse: make(map[int64]struct{})}
}

// Acquire returns an id not held by anyone else.
func (p *IDPool) Acquire() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	var id int64
	if p.freed.Len() > 0 {
		id = heap.Pop(&p.freed).(int64)
	} else {
		id = p.next
		p.next++
	}
	p.inUse[id] = struct{}{}
	return id
}

// Release returns id to the pool. Releasing an id that is not held is a no-op.
func (p *IDPool) Release(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.inUse[id]; !ok {
		return
	}
	delete(p.inUse, id)
	heap.Push(&p.freed, id)
}

// InUse returns the number of ids currently held.
func (p *IDPool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inUse)
}

type idHeap []int64

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x any)        { *h = append(*h, x.(int64)) }
func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
