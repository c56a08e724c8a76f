package renderer

import (
	"sync"
	"testing"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
)

func TestSplatQueue(t *testing.T) {
	queue := NewSplatQueue(2)

	if count := len(queue.Splats()); count != 0 {
		t.Errorf("Expected empty queue, got %d splats", count)
	}

	// third splat forces the buffer to grow
	queue.AddSplat(10, 20, core.Vec3{X: 0.5, Y: 0.3, Z: 0.1})
	queue.AddSplat(50, 60, core.Vec3{X: 0.8, Y: 0.2, Z: 0.4})
	queue.AddSplat(100, 150, core.Vec3{X: 0.1, Y: 0.9, Z: 0.6})

	splats := queue.Splats()
	if len(splats) != 3 {
		t.Fatalf("Expected 3 splats, got %d", len(splats))
	}
	if splats[2].X != 100 || splats[2].Y != 150 || splats[2].Color.Y != 0.9 {
		t.Errorf("Unexpected last splat %+v", splats[2])
	}
}

func TestSplatQueueConcurrency(t *testing.T) {
	queue := NewSplatQueue(8)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				queue.AddSplat(id, j, core.Vec3{X: 1})
			}
		}(i)
	}
	wg.Wait()

	splats := queue.Splats()
	if len(splats) != 1000 {
		t.Fatalf("Expected 1000 splats from concurrent adds, got %d", len(splats))
	}
	sum := 0.0
	for _, s := range splats {
		sum += s.Color.X
	}
	if sum != 1000 {
		t.Errorf("Expected every splat to be stored once, got total %f", sum)
	}
}
