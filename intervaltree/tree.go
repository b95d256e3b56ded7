// Package intervaltree layers interval storage and the four interval query
// modes on top of the base red-black tree. Interval endpoints become
// ordinary keys in the underlying tree; every node also carries a handful
// of identifier sets recording which intervals' spans touch that node,
// that node's left gap, or that node's right gap. The point query Find
// walks those sets; the range query modes scan the side table of interval
// endpoints instead.
package intervaltree

import (
	"github.com/jakub-m/intervalcore/idset"
	"github.com/jakub-m/intervalcore/rbtree"
)

// ext is the payload every rbtree.Node carries. end/dontEnd distinguish
// intervals whose span closes exactly at this node's gap boundary (end)
// from ones that merely pass through it (dontEnd); the left/right slot
// variants record the same distinction for intervals whose span boundary
// falls in a gap where no node exists yet. lowEnd/highEnd/degenerate track
// intervals whose actual (not span-derived) endpoint sits at this key,
// closed, so point-inclusion queries can report them without a span walk.
type ext[ID comparable] struct {
	end, dontEnd                   idset.Set[ID]
	leftSlotEnd, leftSlotDontEnd   idset.Set[ID]
	rightSlotEnd, rightSlotDontEnd idset.Set[ID]
	lowEnd, highEnd, degenerate    idset.Set[ID]
	refCount                       int
}

type node[K rbtree.Ordered, ID comparable] = rbtree.Node[K, ext[ID]]

// record is the side table entry recording an interval's own endpoints,
// independent of however its span is currently registered in the tree.
type record[K rbtree.Ordered] struct {
	lo, hi         K
	openLo, openHi bool
	wholeDomain    bool
}

// Tree stores a set of intervals, keyed by an arbitrary comparable ID, and
// supports the four query modes over a generic ordered key type.
type Tree[ID comparable, K rbtree.Ordered] struct {
	tree   *rbtree.Tree[K, ext[ID]]
	byID   map[ID]record[K]
	domain idset.Set[ID] // intervals spanning the entire key domain
}

// New returns an empty interval tree.
func New[ID comparable, K rbtree.Ordered]() *Tree[ID, K] {
	t := &Tree[ID, K]{byID: make(map[ID]record[K])}
	t.tree = rbtree.New[K, ext[ID]](rbtree.Hooks[K, ext[ID]]{
		RotateLeft:  t.onRotate,
		RotateRight: t.onRotate,
	})
	return t
}

// InsertFullDomain records id as spanning the entire key domain. Such
// intervals live only in the side table, never as tree registrations,
// since there is no finite span to walk.
func (t *Tree[ID, K]) InsertFullDomain(id ID) {
	t.removeExisting(id)
	t.byID[id] = record[K]{wholeDomain: true}
	t.domain.Add(id)
}

// InsertInterval inserts (or replaces) id as the interval [lo,hi] with the
// given openness at each end. An interval whose bounds collapse to nothing
// (equal endpoints with either side open) is a no-op. Equal closed
// endpoints register as degenerate (a single point).
func (t *Tree[ID, K]) InsertInterval(id ID, lo, hi K, openLo, openHi bool) {
	t.removeExisting(id)
	if lo == hi {
		if openLo || openHi {
			return
		}
		n := t.tree.InsertKey(lo)
		n.Ext.degenerate.Add(id)
		n.Ext.refCount++
		t.byID[id] = record[K]{lo: lo, hi: hi, openLo: openLo, openHi: openHi}
		return
	}
	if hi < lo {
		lo, hi = hi, lo
		openLo, openHi = openHi, openLo
	}

	loNode := t.tree.InsertKey(lo)
	loNode.Ext.refCount++
	hiNode := t.tree.InsertKey(hi)
	hiNode.Ext.refCount++
	if !openLo {
		loNode.Ext.lowEnd.Add(id)
	}
	if !openHi {
		hiNode.Ext.highEnd.Add(id)
	}

	t.byID[id] = record[K]{lo: lo, hi: hi, openLo: openLo, openHi: openHi}
	if root := t.tree.Root(); root != nil {
		registerSpan(root, nil, nil, id, lo, hi)
	}
}

// InsertPoint is InsertInterval for the degenerate single-point interval
// {x}.
func (t *Tree[ID, K]) InsertPoint(id ID, x K) { t.InsertInterval(id, x, x, false, false) }

// RemovePoint removes a previously inserted point interval.
func (t *Tree[ID, K]) RemovePoint(id ID) { t.RemoveInterval(id) }

// RemoveInterval removes a previously inserted interval, reporting whether
// id was present.
func (t *Tree[ID, K]) RemoveInterval(id ID) bool {
	if _, ok := t.byID[id]; !ok {
		return false
	}
	t.removeExisting(id)
	return true
}

func (t *Tree[ID, K]) removeExisting(id ID) {
	rec, ok := t.byID[id]
	if !ok {
		return
	}
	delete(t.byID, id)
	if rec.wholeDomain {
		t.domain.Remove(id)
		return
	}
	if rec.lo == rec.hi {
		if n := t.tree.FindExact(rec.lo); n != nil {
			n.Ext.degenerate.Remove(id)
			t.decrefAndMaybeDrop(n)
		}
		return
	}
	if root := t.tree.Root(); root != nil {
		unregisterSpan(root, nil, nil, id, rec.lo, rec.hi)
	}
	if n := t.tree.FindExact(rec.lo); n != nil {
		n.Ext.lowEnd.Remove(id)
		t.decrefAndMaybeDrop(n)
	}
	if n := t.tree.FindExact(rec.hi); n != nil {
		n.Ext.highEnd.Remove(id)
		t.decrefAndMaybeDrop(n)
	}
}

func (t *Tree[ID, K]) decrefAndMaybeDrop(n *node[K, ID]) {
	n.Ext.refCount--
	if n.Ext.refCount <= 0 && n.Ext.end.Len() == 0 && n.Ext.dontEnd.Len() == 0 &&
		n.Ext.leftSlotEnd.Len() == 0 && n.Ext.leftSlotDontEnd.Len() == 0 &&
		n.Ext.rightSlotEnd.Len() == 0 && n.Ext.rightSlotDontEnd.Len() == 0 &&
		n.Ext.lowEnd.Len() == 0 && n.Ext.highEnd.Len() == 0 && n.Ext.degenerate.Len() == 0 {
		t.tree.RemoveKey(n.Key)
	}
}

// spanContained reports whether the gap (spanLo,spanHi) -- nil meaning
// unbounded in that direction -- sits entirely inside [lo,hi].
func spanContained[K rbtree.Ordered](spanLo, spanHi *K, lo, hi K) bool {
	if spanLo == nil || *spanLo < lo {
		return false
	}
	if spanHi == nil || hi < *spanHi {
		return false
	}
	return true
}

// registerSpan walks the subtree rooted at n, registering id's span
// [lo,hi] on every node or empty-child slot whose implied gap becomes
// fully contained in [lo,hi]. spanLo/spanHi are the gap bounds the parent
// passed down on the edge leading to n (nil meaning unbounded).
func registerSpan[K rbtree.Ordered, ID comparable](n *node[K, ID], spanLo, spanHi *K, id ID, lo, hi K) {
	if spanContained(spanLo, spanHi, lo, hi) {
		registerOnNode(n, spanHi, id, hi)
		return
	}
	key := n.Key
	if lo < key {
		if left := n.Left(); left != nil {
			registerSpan(left, spanLo, &key, id, lo, hi)
		} else {
			registerOnSlot(&n.Ext.leftSlotEnd, &n.Ext.leftSlotDontEnd, &key, id, hi)
		}
	}
	if key < hi {
		if right := n.Right(); right != nil {
			registerSpan(right, &key, spanHi, id, lo, hi)
		} else {
			registerOnSlot(&n.Ext.rightSlotEnd, &n.Ext.rightSlotDontEnd, spanHi, id, hi)
		}
	}
}

func unregisterSpan[K rbtree.Ordered, ID comparable](n *node[K, ID], spanLo, spanHi *K, id ID, lo, hi K) {
	if spanContained(spanLo, spanHi, lo, hi) {
		n.Ext.end.Remove(id)
		n.Ext.dontEnd.Remove(id)
		return
	}
	key := n.Key
	if lo < key {
		if left := n.Left(); left != nil {
			unregisterSpan(left, spanLo, &key, id, lo, hi)
		} else {
			n.Ext.leftSlotEnd.Remove(id)
			n.Ext.leftSlotDontEnd.Remove(id)
		}
	}
	if key < hi {
		if right := n.Right(); right != nil {
			unregisterSpan(right, &key, spanHi, id, lo, hi)
		} else {
			n.Ext.rightSlotEnd.Remove(id)
			n.Ext.rightSlotDontEnd.Remove(id)
		}
	}
}

func registerOnNode[K rbtree.Ordered, ID comparable](n *node[K, ID], spanHi *K, id ID, hi K) {
	if spanHi != nil && *spanHi == hi {
		n.Ext.end.Add(id)
	} else {
		n.Ext.dontEnd.Add(id)
	}
}

func registerOnSlot[ID comparable, K rbtree.Ordered](endSet, dontEndSet *idset.Set[ID], slotHi *K, id ID, hi K) {
	if slotHi != nil && *slotHi == hi {
		endSet.Add(id)
	} else {
		dontEndSet.Add(id)
	}
}

// onRotate re-derives interval registrations touching x and y after a
// rotation instead of algebraically patching the pre-rotation sets. A
// rotation never changes the global Prev/Next ordering, so every id
// previously registered somewhere in the two nodes' old span-bearing
// fields is still a candidate for exactly the same span, now reachable
// from x's post-rotation position; re-walking from there with the tree's
// actual span (derived from Leftmost/Rightmost and the sibling chain)
// reproduces the correct registration regardless of which node ended up
// on top.
func (t *Tree[ID, K]) onRotate(x, y *node[K, ID]) {
	candidates := idset.Set[ID]{}
	drain := func(n *node[K, ID]) {
		for _, id := range n.Ext.end.Items() {
			candidates.Add(id)
		}
		for _, id := range n.Ext.dontEnd.Items() {
			candidates.Add(id)
		}
		for _, id := range n.Ext.leftSlotEnd.Items() {
			candidates.Add(id)
		}
		for _, id := range n.Ext.leftSlotDontEnd.Items() {
			candidates.Add(id)
		}
		for _, id := range n.Ext.rightSlotEnd.Items() {
			candidates.Add(id)
		}
		for _, id := range n.Ext.rightSlotDontEnd.Items() {
			candidates.Add(id)
		}
		n.Ext.end = idset.Set[ID]{}
		n.Ext.dontEnd = idset.Set[ID]{}
		n.Ext.leftSlotEnd = idset.Set[ID]{}
		n.Ext.leftSlotDontEnd = idset.Set[ID]{}
		n.Ext.rightSlotEnd = idset.Set[ID]{}
		n.Ext.rightSlotDontEnd = idset.Set[ID]{}
	}
	drain(x)
	drain(y)

	newRoot := x
	if y.Left() == x || y.Right() == x {
		newRoot = y
	}

	spanLo, spanHi := nodeSpan(newRoot)
	for _, id := range candidates.Items() {
		rec, ok := t.byID[id]
		if !ok || rec.wholeDomain {
			continue
		}
		registerSpan(newRoot, spanLo, spanHi, id, rec.lo, rec.hi)
	}
}

// nodeSpan returns the gap bounds (nil meaning unbounded) entering n's
// subtree from its parent: the keys immediately outside n's own leftmost
// and rightmost descendants in the full sibling-chain ordering.
func nodeSpan[K rbtree.Ordered, ID comparable](n *node[K, ID]) (*K, *K) {
	left := rbtree.Leftmost[K, ext[ID]](n)
	right := rbtree.Rightmost[K, ext[ID]](n)
	var lo, hi *K
	if p := left.Prev(); p != nil {
		k := p.Key
		lo = &k
	}
	if nx := right.Next(); nx != nil {
		k := nx.Key
		hi = &k
	}
	return lo, hi
}
