package intervaltree_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakub-m/intervalcore/intervaltree"
)

func sorted(ids []string) []string {
	out := append([]string{}, ids...)
	sort.Strings(out)
	return out
}

func TestFindAcrossOverlappingIntervals(t *testing.T) {
	tr := intervaltree.New[string, int]()
	tr.InsertInterval("X", 0, 10, false, false)
	tr.InsertInterval("Y", 5, 15, true, true)
	tr.InsertInterval("Z", 10, 10, false, false)

	assert.Equal(t, []string{"X", "Y", "Z"}, sorted(tr.Find(10)))
	assert.Equal(t, []string{"X"}, sorted(tr.Find(5)))
	assert.Equal(t, []string{}, sorted(tr.Find(15)))
	assert.Equal(t, []string{"X"}, sorted(tr.Find(2)))
	assert.Equal(t, []string{"Y"}, sorted(tr.Find(12)))
}

func TestRemoveIntervalDropsRegistrations(t *testing.T) {
	tr := intervaltree.New[string, int]()
	tr.InsertInterval("A", 0, 100, false, false)
	tr.InsertInterval("B", 20, 30, false, false)
	assert.Equal(t, []string{"A", "B"}, sorted(tr.Find(25)))

	ok := tr.RemoveInterval("B")
	assert.True(t, ok)
	assert.Equal(t, []string{"A"}, sorted(tr.Find(25)))
	assert.False(t, tr.RemoveInterval("B"))
}

func TestFindSurvivesManyRotations(t *testing.T) {
	tr := intervaltree.New[string, int]()
	n := 200
	for i := 0; i < n; i++ {
		tr.InsertPoint(idOf(i), i)
	}
	tr.InsertInterval("wide", 10, 190, false, false)
	for i := 0; i < n; i++ {
		got := tr.Find(i)
		assert.Contains(t, got, idOf(i))
		if i >= 10 && i <= 190 {
			assert.Contains(t, got, "wide")
		} else {
			assert.NotContains(t, got, "wide")
		}
	}
}

func idOf(i int) string {
	return "p" + string(rune('A'+i%26)) + string(rune('0'+(i/26)%10))
}

func TestFindIntersectionsAndContained(t *testing.T) {
	tr := intervaltree.New[string, int]()
	tr.InsertInterval("A", 0, 10, false, false)
	tr.InsertInterval("B", 5, 20, false, false)
	tr.InsertInterval("C", 30, 40, false, false)

	assert.Equal(t, []string{"A", "B"}, sorted(tr.FindIntersections(8, 12, false, false)))
	assert.Equal(t, []string{"A"}, sorted(tr.FindContained(0, 10, false, false)))
	assert.Equal(t, []string{"A", "B"}, sorted(tr.FindWithUpperBound(0, 40, false, false, 20, false)))
	assert.Equal(t, []string{"C"}, sorted(tr.FindWithLowerBound(0, 40, false, false, 21, false)))
}

func TestFindIntersectionsRespectsOpenness(t *testing.T) {
	tr := intervaltree.New[string, int]()
	tr.InsertInterval("open", 5, 15, true, true) // (5,15)

	assert.Equal(t, []string{"open"}, sorted(tr.FindIntersections(5, 15, false, false)))
	assert.Equal(t, []string{}, sorted(tr.FindIntersections(5, 5, false, false)))
	assert.Equal(t, []string{"open"}, sorted(tr.FindIntersections(0, 6, false, false)))
}

func TestFindContainedRespectsOpenness(t *testing.T) {
	tr := intervaltree.New[string, int]()
	tr.InsertInterval("closed", 5, 10, false, false) // [5,10]
	tr.InsertInterval("open", 5, 10, true, true)      // (5,10)

	assert.Equal(t, []string{"closed", "open"}, sorted(tr.FindContained(5, 10, false, false)))
	assert.Equal(t, []string{"open"}, sorted(tr.FindContained(5, 10, true, true)))
}

func TestFindWithBoundsRequireIntersectionAndContainment(t *testing.T) {
	tr := intervaltree.New[string, int]()
	tr.InsertInterval("near", 2, 8, false, false)
	tr.InsertInterval("far", 100, 200, false, false)

	// "far" intersects nothing in [0,10], so it's excluded regardless of
	// how generous the bound is.
	assert.Equal(t, []string{"near"}, sorted(tr.FindWithUpperBound(0, 10, false, false, 1000, false)))
	assert.Equal(t, []string{"near"}, sorted(tr.FindWithLowerBound(0, 10, false, false, -1000, false)))

	// a bound open exactly at the candidate's own closed endpoint excludes it.
	assert.Equal(t, []string{}, sorted(tr.FindWithUpperBound(0, 10, false, false, 8, true)))
	assert.Equal(t, []string{"near"}, sorted(tr.FindWithUpperBound(0, 10, false, false, 8, false)))
}

func TestWholeDomainIntervalCoversEveryPoint(t *testing.T) {
	tr := intervaltree.New[string, int]()
	tr.InsertFullDomain("all")
	tr.InsertPoint("p", 5)

	assert.Equal(t, []string{"all"}, sorted(tr.Find(-1000)))
	assert.Equal(t, []string{"all", "p"}, sorted(tr.Find(5)))
	assert.Equal(t, []string{"all"}, sorted(tr.FindIntersections(1, 2, false, false)))
}

func TestEmptyIntervalIsNoop(t *testing.T) {
	tr := intervaltree.New[string, int]()
	tr.InsertInterval("e", 5, 5, true, false)
	assert.Equal(t, []string{}, sorted(tr.Find(5)))
}
