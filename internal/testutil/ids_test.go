package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceGenerator(t *testing.T) {
	g := NewSequenceGenerator("a")
	assert.Equal(t, "a1", g.Generate())
	assert.Equal(t, "a2", g.Generate())
	assert.Equal(t, "a3", g.Generate())
}

func TestSequenceGeneratorConcurrent(t *testing.T) {
	g := NewSequenceGenerator("")

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.Generate()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50)
}
