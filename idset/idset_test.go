package idset_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakub-m/intervalcore/idset"
)

func TestAddContainsRemove(t *testing.T) {
	s := idset.New[int]()
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Add(1))
	assert.False(t, s.Add(1))
	assert.True(t, s.Contains(1))
	assert.False(t, s.Contains(2))
	assert.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))
	assert.Equal(t, 0, s.Len())
}

func TestPromotionPreservesMembership(t *testing.T) {
	s := idset.New[int]()
	for i := 0; i < 50; i++ {
		assert.True(t, s.Add(i))
	}
	assert.Equal(t, 50, s.Len())
	for i := 0; i < 50; i++ {
		assert.True(t, s.Contains(i))
	}
	for i := 0; i < 25; i++ {
		assert.True(t, s.Remove(i))
	}
	assert.Equal(t, 25, s.Len())
	items := s.Items()
	sort.Ints(items)
	want := make([]int, 0, 25)
	for i := 25; i < 50; i++ {
		want = append(want, i)
	}
	assert.Equal(t, want, items)
}

func TestFirstOnEmptyAndNonEmpty(t *testing.T) {
	var s *idset.Set[string]
	_, ok := s.First()
	assert.False(t, ok)

	s2 := idset.New("a", "b")
	v, ok := s2.First()
	assert.True(t, ok)
	assert.Contains(t, []string{"a", "b"}, v)
}
