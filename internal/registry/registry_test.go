package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSender struct{ name string }

func (nopSender) Send([]byte) error { return nil }

func TestAdd_DuplicateKeepsFirstEntry(t *testing.T) {
	r := New(nil)
	first := &nopSender{name: "first"}

	r.Add(7, first)
	r.Add(7, &nopSender{name: "second"})

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, int64(7), snap[0].ID)
	assert.Same(t, first, snap[0].Sender)
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	r := New(nil)
	r.Add(1, nopSender{})

	assert.NotPanics(t, func() { r.Remove(99) })
	assert.Equal(t, 1, r.Len())

	r.Remove(1)
	r.Remove(1)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Snapshot())
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	r := New(nil)
	r.Add(3, nopSender{})
	r.Add(1, nopSender{})
	r.Add(2, nopSender{})

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{snap[0].ID, snap[1].ID, snap[2].ID})

	r.Remove(2)
	r.Add(4, nopSender{})
	assert.Len(t, snap, 3)
	assert.Equal(t, int64(2), snap[1].ID)
	assert.Len(t, r.Snapshot(), 3)
}

func TestConcurrentMutationAndSnapshot(t *testing.T) {
	r := New(nil)

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(3)
		go func(id int64) {
			defer wg.Done()
			r.Add(id, nopSender{})
		}(i)
		go func(id int64) {
			defer wg.Done()
			r.Add(id, nopSender{})
		}(i)
		go func() {
			defer wg.Done()
			_ = r.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, r.Len())

	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			r.Remove(id)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, r.Len())
}
