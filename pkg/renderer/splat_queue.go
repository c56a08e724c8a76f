package renderer

import (
	"sync"
	"sync/atomic"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
)

// SplatXY is a contribution that belongs to a pixel other than the one
// being rendered
type SplatXY struct {
	X, Y  int
	Color core.Vec3
}

// SplatQueue collects splats from concurrent tile workers. Appends reserve a
// slot with an atomic counter and only take the write lock to grow.
type SplatQueue struct {
	splats []SplatXY
	length int64
	mu     sync.RWMutex
}

// NewSplatQueue creates a queue with room for capacity splats
func NewSplatQueue(capacity int) *SplatQueue {
	return &SplatQueue{splats: make([]SplatXY, max(capacity, 1))}
}

// AddSplat appends a splat. Safe for concurrent use.
func (sq *SplatQueue) AddSplat(x, y int, color core.Vec3) {
	index := int(atomic.AddInt64(&sq.length, 1) - 1)
	splat := SplatXY{X: x, Y: y, Color: color}

	sq.mu.RLock()
	if index < len(sq.splats) {
		// slots are reserved, so writers never share an index
		sq.splats[index] = splat
		sq.mu.RUnlock()
		return
	}
	sq.mu.RUnlock()

	sq.mu.Lock()
	defer sq.mu.Unlock()
	if index >= len(sq.splats) {
		grown := make([]SplatXY, max(2*len(sq.splats), index+1))
		copy(grown, sq.splats)
		sq.splats = grown
	}
	sq.splats[index] = splat
}

// Splats returns a copy of the queued splats. Call it once all writers
// are done.
func (sq *SplatQueue) Splats() []SplatXY {
	sq.mu.Lock()
	defer sq.mu.Unlock()

	n := atomic.LoadInt64(&sq.length)
	result := make([]SplatXY, n)
	copy(result, sq.splats[:n])
	return result
}
