package sets

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New("a", "b")
	s.Add("c")
	assert.True(t, s.Has("a"))
	assert.True(t, s.Has("c"))
	assert.False(t, s.Has("d"))

	c := s.Clone()
	s.Delete("a")
	assert.False(t, s.Has("a"))
	assert.True(t, c.Has("a"), "clone must be independent")
}

func TestSyncZeroValue(t *testing.T) {
	var s Sync[string]
	assert.False(t, s.Has("x"))
	assert.True(t, s.AddIfAbsent("x"))
	assert.False(t, s.AddIfAbsent("x"))
	assert.Equal(t, 1, s.Len())
}

func TestSyncConcurrentAdd(t *testing.T) {
	s := NewSync[int]()
	var wg sync.WaitGroup
	added := make(chan bool, 100)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			added <- s.AddIfAbsent(7)
		}()
	}
	wg.Wait()
	close(added)

	wins := 0
	for ok := range added {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, s.Len())
}
