package rbtree_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakub-m/intervalcore/rbtree"
)

func TestInsertOne(t *testing.T) {
	tr := rbtree.New[int, struct{}](rbtree.Hooks[int, struct{}]{})
	tr.InsertKey(10)
	assertFound(t, tr, 10)
	assert.NoError(t, tr.IntegrityCheck())
}

func TestInsertTwoOutOfOrder(t *testing.T) {
	tr := rbtree.New[int, struct{}](rbtree.Hooks[int, struct{}]{})
	tr.InsertKey(20)
	tr.InsertKey(10)
	assert.NoError(t, tr.IntegrityCheck())
	assertFound(t, tr, 10)
	assertFound(t, tr, 20)
}

func TestInsertDuplicateReturnsSameNode(t *testing.T) {
	tr := rbtree.New[int, struct{}](rbtree.Hooks[int, struct{}]{})
	a := tr.InsertKey(10)
	b := tr.InsertKey(10)
	assert.Same(t, a, b)
	assert.Equal(t, 1, tr.Len())
}

func TestLotsOfSequentialInsertions(t *testing.T) {
	n := 2000
	tr := rbtree.New[int, struct{}](rbtree.Hooks[int, struct{}]{})
	for i := range n {
		tr.InsertKey(i)
	}
	assert.NoError(t, tr.IntegrityCheck())
	for i := range n {
		assertFound(t, tr, i)
	}
	assert.Equal(t, 0, tr.First().Key)
	assert.Equal(t, n-1, tr.Last().Key)
}

func TestLotsOfRandomInsertionsAndRemovals(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	n := 2000
	values := make([]int, n)
	for i := range n {
		values[i] = i
	}
	r.Shuffle(n, func(i, j int) { values[i], values[j] = values[j], values[i] })

	tr := rbtree.New[int, struct{}](rbtree.Hooks[int, struct{}]{})
	for _, v := range values {
		tr.InsertKey(v)
		assert.NoError(t, tr.IntegrityCheck())
	}

	r.Shuffle(n, func(i, j int) { values[i], values[j] = values[j], values[i] })
	for i, v := range values {
		ok := tr.RemoveKey(v)
		assert.True(t, ok)
		if i%97 == 0 {
			assert.NoError(t, tr.IntegrityCheck())
		}
	}
	assert.NoError(t, tr.IntegrityCheck())
	assert.Equal(t, 0, tr.Len())
	assert.Nil(t, tr.Root())
}

func TestSiblingChainIntegrityAfterRemovals(t *testing.T) {
	t.Run("removing interior nodes keeps prev/next consistent", func(t *testing.T) {
		tr := rbtree.New[int, struct{}](rbtree.Hooks[int, struct{}]{})
		for _, k := range []int{50, 30, 70, 20, 40, 60, 80, 10} {
			tr.InsertKey(k)
		}
		assert.NoError(t, tr.IntegrityCheck())

		tr.RemoveKey(30) // two children
		assert.NoError(t, tr.IntegrityCheck())
		assertOrderedKeys(t, tr, []int{10, 20, 40, 50, 60, 70, 80})

		tr.RemoveKey(80) // leaf
		assert.NoError(t, tr.IntegrityCheck())
		assertOrderedKeys(t, tr, []int{10, 20, 40, 50, 60, 70})

		tr.RemoveKey(50) // root with two children
		assert.NoError(t, tr.IntegrityCheck())
		assertOrderedKeys(t, tr, []int{10, 20, 40, 60, 70})
	})
}

func TestFindReturnsSmallestNotLessThan(t *testing.T) {
	tr := rbtree.New[int, struct{}](rbtree.Hooks[int, struct{}]{})
	for _, k := range []int{10, 20, 30, 40} {
		tr.InsertKey(k)
	}
	assert.Equal(t, 20, tr.Find(15).Key)
	assert.Equal(t, 10, tr.Find(10).Key)
	assert.Nil(t, tr.Find(41))
}

func assertFound(t *testing.T, tr *rbtree.Tree[int, struct{}], key int) {
	t.Helper()
	n := tr.FindExact(key)
	assert.NotNil(t, n, "key %d not found", key)
}

func assertOrderedKeys(t *testing.T, tr *rbtree.Tree[int, struct{}], want []int) {
	t.Helper()
	var got []int
	for n := tr.First(); n != nil; n = n.Next() {
		got = append(got, n.Key)
	}
	assert.Equal(t, want, got, fmt.Sprintf("ordered traversal mismatch"))
}

func TestHooksFireOnInsertRotateAndSplice(t *testing.T) {
	type ext struct{ tag string }
	var rotations int
	var afterInserts []int
	var splices [][2]int

	hooks := rbtree.Hooks[int, ext]{
		RotateLeft:  func(x, y *rbtree.Node[int, ext]) { rotations++ },
		RotateRight: func(x, y *rbtree.Node[int, ext]) { rotations++ },
		AfterInsert: func(n *rbtree.Node[int, ext]) { afterInserts = append(afterInserts, n.Key) },
		CopySplicedToRemoved: func(removed, spliced *rbtree.Node[int, ext]) {
			splices = append(splices, [2]int{removed.Key, spliced.Key})
		},
	}
	tr := rbtree.New[int, ext](hooks)
	for _, k := range []int{10, 20, 30, 40, 50} {
		tr.InsertKey(k)
	}
	assert.Equal(t, []int{10, 20, 30, 40, 50}, afterInserts)
	assert.Greater(t, rotations, 0)

	tr.RemoveKey(20) // two children: splices in successor (30)
	assert.Equal(t, [][2]int{{20, 30}}, splices)
	assert.NoError(t, tr.IntegrityCheck())
}
