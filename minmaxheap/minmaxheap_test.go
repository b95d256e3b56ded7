package minmaxheap_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakub-m/intervalcore/minmaxheap"
)

func less(a, b int) bool { return a < b }

func TestMinMaxOnSmallSets(t *testing.T) {
	h := minmaxheap.New(less)
	_, ok := h.Min()
	assert.False(t, ok)

	for _, v := range []int{5, 1, 9, 3, 7, 2, 8} {
		h.Add(v)
	}
	min, ok := h.Min()
	assert.True(t, ok)
	assert.Equal(t, 1, min)
	max, ok := h.Max()
	assert.True(t, ok)
	assert.Equal(t, 9, max)
}

func TestPopMinPopMaxDrainsInOrder(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	n := 500
	values := make([]int, n)
	for i := range values {
		values[i] = r.Intn(10000)
	}

	h := minmaxheap.New(less)
	for _, v := range values {
		h.Add(v)
	}
	assert.Equal(t, n, h.Len())

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	lo, hi := 0, len(sorted)-1
	for h.Len() > 0 {
		if lo > hi {
			break
		}
		if h.Len()%2 == 0 {
			v, ok := h.PopMin()
			assert.True(t, ok)
			assert.Equal(t, sorted[lo], v)
			lo++
		} else {
			v, ok := h.PopMax()
			assert.True(t, ok)
			assert.Equal(t, sorted[hi], v)
			hi--
		}
	}
	assert.Equal(t, 0, h.Len())
}

func TestInitSortedReportsMinMaxAndLen(t *testing.T) {
	sorted := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	h := minmaxheap.InitSorted(sorted, less)
	min, _ := h.Min()
	max, _ := h.Max()
	assert.Equal(t, 1, min)
	assert.Equal(t, 10, max)
	assert.Equal(t, len(sorted), h.Len())
}

func TestRemoveByKey(t *testing.T) {
	h := minmaxheap.New(less)
	for _, v := range []int{5, 1, 9, 3, 7} {
		h.Add(v)
	}
	ok := h.Remove(7, func(a, b int) bool { return a == b })
	assert.True(t, ok)
	assert.Equal(t, 4, h.Len())
	ok = h.Remove(100, func(a, b int) bool { return a == b })
	assert.False(t, ok)

	var drained []int
	for h.Len() > 0 {
		v, _ := h.PopMin()
		drained = append(drained, v)
	}
	assert.Equal(t, []int{1, 3, 5, 9}, drained)
}
