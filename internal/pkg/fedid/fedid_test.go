package fedid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterGeneratorPrefixes(t *testing.T) {
	g := NewCounterGenerator()

	assert.Regexp(t, `^DAF-F\d+$`, g.Next("fencer"))
	assert.Regexp(t, `^DAF-C\d+$`, g.Next("coach"))
	assert.Regexp(t, `^DAF-R\d+$`, g.Next("referee"))
	assert.Regexp(t, `^DAF-S\d+$`, g.Next("school"))
	assert.Regexp(t, `^DAF-CL\d+$`, g.Next("club"))
	assert.Regexp(t, `^DAF-X\d+$`, g.Next("unknown"))
}

func TestCounterGeneratorUnique(t *testing.T) {
	g := NewCounterGenerator()

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := g.Next("fencer")
				mu.Lock()
				assert.False(t, seen[id], "duplicate id %s", id)
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1000)
}

func TestSequential(t *testing.T) {
	g := &Sequential{}

	assert.Equal(t, "DAF-F1", g.Next("fencer"))
	assert.Equal(t, "DAF-C2", g.Next("coach"))
	assert.Equal(t, "DAF-F3", g.Next("fencer"))
}
