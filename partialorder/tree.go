// Package partialorder implements a lazily-sorted ordered-set container
// with a registry of standing position/relative/range requirements that
// get renotified as elements are inserted, removed, or the tree is
// reordered under a new comparison function.
//
// The tree itself is an order-statistics red-black tree built directly on
// top of rbtree.Tree, the same "generalize the base, keep the rotation
// idiom" move every derived component in this module makes: instead of
// keying nodes by the element's own value (which would forbid duplicates
// and fight the caller-supplied comparator), nodes are keyed by a
// continuously-spaced fractional rank, and a new element's rank is chosen
// as the midpoint between its soon-to-be neighbours' ranks. Subtree size
// is maintained via the same rotation hooks the interval tree uses to
// re-derive its span registrations: augmented state that rotations must
// recompute, recomputed directly from the post-rotation structure rather
// than patched in place.
//
// A node is either an element node, holding exactly one element, or a
// heap node, holding an unordered multiset of mutually compare-equal
// elements in a minmaxheap.Heap. Elements that tie under the comparator
// have no required relative order, so inserting one next to an existing
// tie-run folds it into that run's heap node instead of allocating a
// whole new tree node and rank. A heap node's members stay
// interchangeable until one of them is asked for individually (by an
// anchored or element-position requirement), at which point it's split
// back out into its own element node.
package partialorder

import (
	"github.com/jakub-m/intervalcore/minmaxheap"
	"github.com/jakub-m/intervalcore/rbtree"
)

type rank = float64

type nodeKind int

const (
	elementNode nodeKind = iota
	heapNode
)

type payload[E any] struct {
	kind    nodeKind
	element E
	heap    *minmaxheap.Heap[E]
	size    int // total element count in this node's subtree, including its own bucket
}

type node[E any] = rbtree.Node[rank, payload[E]]

// representative returns a value from p's bucket suitable for BST
// ordering comparisons: p's own element, or an arbitrary (but
// deterministic) member of its heap, since every member of a heap
// node's bucket compares equal to every other.
func representative[E any](p payload[E]) E {
	if p.kind == heapNode {
		v, _ := p.heap.Min()
		return v
	}
	return p.element
}

// bucketWeight is how many elements p's own node holds, independent of
// its subtree.
func bucketWeight[E any](p payload[E]) int {
	if p.kind == heapNode {
		return p.heap.Len()
	}
	return 1
}

// Tree is an ordered multiset of elements of type E, sorted by a
// caller-supplied comparison function, with a registry of requirements
// notified on every mutation.
type Tree[E any] struct {
	tree    *rbtree.Tree[rank, payload[E]]
	compare func(a, b E) int
	reqs    []*reqHandle[E]
	nextID  uint64
}

// New returns an empty tree ordered by compare (negative/zero/positive
// per the usual three-way comparator convention).
func New[E any](compare func(a, b E) int) *Tree[E] {
	t := &Tree[E]{compare: compare}
	t.tree = rbtree.New[rank, payload[E]](rbtree.Hooks[rank, payload[E]]{
		RotateLeft:  t.onRotate,
		RotateRight: t.onRotate,
		AfterInsert: t.onAfterInsert,
	})
	return t
}

// Len returns the number of elements currently in the tree.
func (t *Tree[E]) Len() int { return sizeOf(t.tree.Root()) }

func sizeOf[E any](n *node[E]) int {
	if n == nil {
		return 0
	}
	return n.Ext.size
}

func recomputeSize[E any](n *node[E]) {
	n.Ext.size = sizeOf(n.Left()) + sizeOf(n.Right()) + bucketWeight(n.Ext)
}

// bumpSizeChain adjusts n's subtree size, and every ancestor's, by delta.
// Used when an element joins or leaves a node's bucket without the tree
// gaining or losing a node, the counterpart to onAfterInsert/removeNode's
// ancestor walk for the node-count-changing case.
func bumpSizeChain[E any](n *node[E], delta int) {
	for p := n; p != nil; p = p.Parent() {
		p.Ext.size += delta
	}
}

func (t *Tree[E]) onRotate(x, y *node[E]) {
	if y.Left() == x || y.Right() == x {
		recomputeSize(x)
		recomputeSize(y)
	} else {
		recomputeSize(y)
		recomputeSize(x)
	}
}

func (t *Tree[E]) onAfterInsert(n *node[E]) {
	n.Ext.size = 1
	for p := n.Parent(); p != nil; p = p.Parent() {
		p.Ext.size++
	}
}

// InsertElement inserts e in sorted position and renotifies every
// registered requirement. An element that ties under compare with an
// existing run of equal elements joins that run's heap node rather than
// allocating a new one.
func (t *Tree[E]) InsertElement(e E) {
	t.insertOne(e)
	t.NotifyListeners()
}

func (t *Tree[E]) insertOne(e E) {
	if n := t.findNodeByElementCompare(e); n != nil {
		t.mergeInto(n, e)
		return
	}
	t.insertNewElementNode(e)
}

// mergeInto folds e into n's bucket, converting n to a heap node first if
// it was still a lone element.
func (t *Tree[E]) mergeInto(n *node[E], e E) {
	if n.Ext.kind == elementNode {
		h := minmaxheap.New(func(a, b E) bool { return t.compare(a, b) < 0 })
		h.Add(n.Ext.element)
		h.Add(e)
		var zero E
		n.Ext.kind = heapNode
		n.Ext.element = zero
		n.Ext.heap = h
	} else {
		n.Ext.heap.Add(e)
	}
	bumpSizeChain(n, 1)
}

// insertNewElementNode allocates a fresh node for e at the midpoint rank
// between its soon-to-be neighbours, the same placement InsertElement has
// always used.
func (t *Tree[E]) insertNewElementNode(e E) *node[E] {
	var parent *node[E]
	goLeft := false
	n := t.tree.Root()
	for n != nil {
		parent = n
		if t.compare(e, representative(n.Ext)) < 0 {
			goLeft = true
			n = n.Left()
		} else {
			goLeft = false
			n = n.Right()
		}
	}

	var newRank rank
	switch {
	case parent == nil:
		newRank = 0
	case goLeft:
		if p := parent.Prev(); p != nil {
			newRank = (p.Key + parent.Key) / 2
		} else {
			newRank = parent.Key - 1
		}
	default:
		if nx := parent.Next(); nx != nil {
			newRank = (parent.Key + nx.Key) / 2
		} else {
			newRank = parent.Key + 1
		}
	}

	created := t.tree.InsertKey(newRank)
	created.Ext.kind = elementNode
	created.Ext.element = e
	return created
}

// RemoveElement removes the first element equal to target under compare,
// reporting whether one was found, and renotifies every requirement. A
// target living in a heap node's bucket is removed from the heap in
// place; the bucket collapses back into a plain element node once it's
// down to its last member.
func (t *Tree[E]) RemoveElement(target E) bool {
	n := t.findNodeByElementCompare(target)
	if n == nil {
		return false
	}
	if n.Ext.kind == heapNode {
		if !n.Ext.heap.Remove(target, t.elementsEqual) {
			return false
		}
		t.shrinkBucket(n)
		t.NotifyListeners()
		return true
	}
	t.removeNode(n)
	t.NotifyListeners()
	return true
}

func (t *Tree[E]) elementsEqual(a, b E) bool { return t.compare(a, b) == 0 }

// shrinkBucket accounts for one element having just left n's heap
// bucket, collapsing it back into an element node once only one member
// remains. n's bucket must not be empty.
func (t *Tree[E]) shrinkBucket(n *node[E]) {
	bumpSizeChain(n, -1)
	if n.Ext.heap.Len() == 1 {
		remaining, _ := n.Ext.heap.PopMin()
		n.Ext.kind = elementNode
		n.Ext.element = remaining
		n.Ext.heap = nil
	}
}

// explodeForAnchor ensures target has its own individually addressable
// node, splitting it out of a heap bucket if necessary. Requirements
// anchored to a specific element (AddAnchoredRequirement,
// AddElementPositionRequirement) need this: once an element's exact
// offset is being tracked, it can no longer share a node with other,
// order-indifferent ties.
func (t *Tree[E]) explodeForAnchor(target E) *node[E] {
	n := t.findNodeByElementCompare(target)
	if n == nil || n.Ext.kind != heapNode {
		return n
	}
	if !n.Ext.heap.Remove(target, t.elementsEqual) {
		return n
	}
	t.shrinkBucket(n)
	return t.insertNewElementNode(target)
}

// RemoveAllElements empties the tree. Every requirement is renotified and
// will report itself suspended (relative/element) or absent (absolute).
func (t *Tree[E]) RemoveAllElements() {
	t.tree = rbtree.New[rank, payload[E]](rbtree.Hooks[rank, payload[E]]{
		RotateLeft:  t.onRotate,
		RotateRight: t.onRotate,
		AfterInsert: t.onAfterInsert,
	})
	t.NotifyListeners()
}

func (t *Tree[E]) removeNode(n *node[E]) {
	splice := n
	if n.Left() != nil && n.Right() != nil {
		splice = rbtree.Leftmost[rank, payload[E]](n.Right())
	}
	// Nodes between splice and n lose splice's whole bucket; n and its
	// ancestors lose only n's own element, since n takes over splice's
	// bucket along with its rank.
	lost := bucketWeight(splice.Ext)
	for p := splice.Parent(); p != nil; p = p.Parent() {
		if p == n {
			lost = 1
		}
		p.Ext.size -= lost
	}
	if splice != n {
		n.Ext.kind, n.Ext.element, n.Ext.heap = splice.Ext.kind, splice.Ext.element, splice.Ext.heap
	}
	t.tree.RemoveNode(n)
}

func (t *Tree[E]) findNodeByElementCompare(target E) *node[E] {
	n := t.tree.Root()
	for n != nil {
		c := t.compare(target, representative(n.Ext))
		switch {
		case c == 0:
			return n
		case c < 0:
			n = n.Left()
		default:
			n = n.Right()
		}
	}
	return nil
}

// FindNodeByElement reports the current offset of target, if present.
// Exploding a heap bucket here, rather than leaving target's offset
// ambiguous among its ties, is what gives an anchored requirement a
// stable position to track.
func (t *Tree[E]) FindNodeByElement(target E) (offset int, ok bool) {
	n := t.explodeForAnchor(target)
	if n == nil {
		return 0, false
	}
	return t.offsetOf(n), true
}

// FindNodeByOffset returns the element at the given zero-based offset.
// If that offset falls inside a heap bucket, the member returned is
// whichever the heap reports as its minimum -- any member would do,
// since bucket members are mutually interchangeable until individually
// anchored.
func (t *Tree[E]) FindNodeByOffset(offset int) (element E, ok bool) {
	n, _ := t.nodeAndSkipAtOffset(offset)
	if n == nil {
		var zero E
		return zero, false
	}
	if n.Ext.kind == heapNode {
		v, _ := n.Ext.heap.Min()
		return v, true
	}
	return n.Ext.element, true
}

// nodeAndSkipAtOffset returns the node whose bucket covers offset, plus
// how many of that bucket's slots precede offset.
func (t *Tree[E]) nodeAndSkipAtOffset(offset int) (*node[E], int) {
	n := t.tree.Root()
	for n != nil {
		left := sizeOf(n.Left())
		own := bucketWeight(n.Ext)
		switch {
		case offset < left:
			n = n.Left()
		case offset < left+own:
			return n, offset - left
		default:
			offset -= left + own
			n = n.Right()
		}
	}
	return nil, 0
}

func (t *Tree[E]) nodeAtOffset(offset int) *node[E] {
	n, _ := t.nodeAndSkipAtOffset(offset)
	return n
}

// offsetOf returns the first offset occupied by n's own bucket. Callers
// that need a single element's individual offset (FindNodeByElement) go
// through explodeForAnchor first, so n's bucket weight is always 1 at
// the point this is asked to resolve one.
func (t *Tree[E]) offsetOf(n *node[E]) int {
	offset := sizeOf(n.Left())
	for p := n; p.Parent() != nil; p = p.Parent() {
		if p.Parent().Right() == p {
			offset += sizeOf(p.Parent().Left()) + bucketWeight(p.Parent().Ext)
		}
	}
	return offset
}

// GetRangeElementsByOffsets returns the elements between offsets lo and
// hi (inclusive, zero-based, lo<=hi), or in reverse order if backward.
// Offsets landing inside a heap bucket consume from it arbitrarily --
// which member fills which offset within a tie run is never stable
// across calls.
func (t *Tree[E]) GetRangeElementsByOffsets(lo, hi int, backward bool) []E {
	if lo < 0 {
		lo = 0
	}
	if hi > t.Len()-1 {
		hi = t.Len() - 1
	}
	if lo > hi {
		return nil
	}
	out := make([]E, 0, hi-lo+1)
	n, skip := t.nodeAndSkipAtOffset(lo)
	need := hi - lo + 1
	for n != nil && need > 0 {
		if n.Ext.kind == heapNode {
			items := n.Ext.heap.Items()[skip:]
			take := len(items)
			if take > need {
				take = need
			}
			out = append(out, items[:take]...)
			need -= take
		} else {
			out = append(out, n.Ext.element)
			need--
		}
		skip = 0
		n = n.Next()
	}
	if backward {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// UpdateCompareFunc replaces the ordering comparator. The tree is not
// reordered until RefreshOrder is called.
func (t *Tree[E]) UpdateCompareFunc(compare func(a, b E) int) { t.compare = compare }

// RefreshOrder rebuilds the tree under the current comparator and
// renotifies every requirement. Implemented as a full rebuild from an
// in-order snapshot rather than the in-place merge-sort-by-leaves
// algorithm, trading the "keep node identity, so absolute offsets track
// automatically" property for a simpler, directly-verifiable pass;
// absolute/relative requirements are recomputed from scratch afterward
// instead of riding along with preserved node identities.
func (t *Tree[E]) RefreshOrder() {
	elements := t.allElements()
	sortByCompare(elements, t.compare)
	t.tree = rbtree.New[rank, payload[E]](rbtree.Hooks[rank, payload[E]]{
		RotateLeft:  t.onRotate,
		RotateRight: t.onRotate,
		AfterInsert: t.onAfterInsert,
	})
	for _, e := range elements {
		t.insertOne(e)
	}
	t.NotifyListeners()
}

func (t *Tree[E]) allElements() []E {
	out := make([]E, 0, t.Len())
	for n := t.tree.First(); n != nil; n = n.Next() {
		if n.Ext.kind == heapNode {
			out = append(out, n.Ext.heap.Items()...)
		} else {
			out = append(out, n.Ext.element)
		}
	}
	return out
}

func sortByCompare[E any](s []E, compare func(a, b E) int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && compare(s[j-1], s[j]) > 0; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
