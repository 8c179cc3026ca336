package parallel_test

import (
	"sync/atomic"
	"testing"

	"github.com/kleascm/loghound/pkg/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPreservesOrderAndContent(t *testing.T) {
	in := make([]int, 1000)
	for i := range in {
		in[i] = i
	}
	out := parallel.Map(in, 8, func(_ int, item int) int { return item * item })
	require.Len(t, out, len(in))
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}
}

func TestMapIndexMatchesItem(t *testing.T) {
	in := []string{"a", "b", "c", "d"}
	out := parallel.Map(in, 4, func(index int, item string) string {
		assert.Equal(t, in[index], item)
		return item
	})
	assert.Equal(t, in, out)
}

func TestMapSequentialFallbackForLowWorkerCount(t *testing.T) {
	var calls int32
	in := []int{1, 2, 3}
	out := parallel.Map(in, 1, func(_ int, item int) int {
		atomic.AddInt32(&calls, 1)
		return item + 1
	})
	assert.Equal(t, []int{2, 3, 4}, out)
	assert.EqualValues(t, 3, calls)

	out = parallel.Map(in, 0, func(_ int, item int) int { return item })
	assert.Equal(t, in, out)
}

func TestMapEmptyInput(t *testing.T) {
	out := parallel.Map[int, int](nil, 4, func(_ int, item int) int { return item })
	assert.Empty(t, out)
}

func TestMapWorkersGreaterThanItemCount(t *testing.T) {
	in := []int{10, 20, 30}
	out := parallel.Map(in, 100, func(_ int, item int) int { return item })
	assert.Equal(t, in, out)
}

func TestDefaultWorkersCapsByItemCount(t *testing.T) {
	assert.Equal(t, 1, parallel.DefaultWorkers(1))
	assert.GreaterOrEqual(t, parallel.DefaultWorkers(0), 1)
	assert.LessOrEqual(t, parallel.DefaultWorkers(2), 2)
}
