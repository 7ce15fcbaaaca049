package bot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryAddIsExclusive(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Add(1))
	assert.False(t, r.Add(1))
	assert.True(t, r.Has(1))
	assert.Equal(t, 1, r.Len())

	r.Remove(1)
	assert.False(t, r.Has(1))
	assert.True(t, r.Add(1))
}

func TestRegistrySnapshotSorted(t *testing.T) {
	r := NewRegistry()
	for _, id := range []uint64{42, 7, 19, 3} {
		r.Add(id)
	}

	assert.Equal(t, []uint64{3, 7, 19, 42}, r.Snapshot())
}

func TestRegistryConcurrentAddRemove(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			r.Add(id)
			r.Has(id)
			r.Snapshot()
			r.Remove(id)
		}(uint64(i))
	}
	wg.Wait()

	assert.Equal(t, 0, r.Len())
}
