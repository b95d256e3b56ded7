// Package disjoint tracks a set of intervals and answers whether they are
// pairwise disjoint, optionally maintaining a canonical non-overlapping
// cover of the tracked intervals. Where more than one tracked interval
// touches a point, the cover's owner is the outermost (non-swallowed) one
// among them, oldest first: an interval properly contained in another
// currently-tracked interval never owns the cover, and among candidates
// where neither contains the other, the one registered first keeps
// ownership. This keeps cover ownership stable as later, overlapping
// intervals come and go.
package disjoint

import "github.com/jakub-m/intervalcore/rbtree"

// kind is the endpoint classification used to order same-valued endpoints:
// end-open sorts before start-closed before end-closed before start-open.
type kind int

const (
	kindEndOpen kind = iota
	kindStartClosed
	kindEndClosed
	kindStartOpen
)

func isStartKind(k kind) bool { return k == kindStartClosed || k == kindStartOpen }

// ext is the per-breakpoint payload: how many currently-tracked endpoints
// of each kind land exactly on this key.
type ext struct {
	counts [4]int
}

type entry[ID comparable, K rbtree.Ordered] struct {
	lo, hi         K
	openLo, openHi bool
	seq            uint64
}

func (e entry[ID, K]) empty() bool { return e.lo == e.hi && (e.openLo || e.openHi) }

func (e entry[ID, K]) contains(v K) bool {
	if e.lo == e.hi {
		return !e.openLo && !e.openHi && v == e.lo
	}
	if v < e.lo || (v == e.lo && e.openLo) {
		return false
	}
	if e.hi < v || (v == e.hi && e.openHi) {
		return false
	}
	return true
}

func (e entry[ID, K]) containedIn(o entry[ID, K]) bool {
	loOK := o.lo < e.lo || (o.lo == e.lo && (!o.openLo || e.openLo))
	hiOK := e.hi < o.hi || (e.hi == o.hi && (!o.openHi || e.openHi))
	return loOK && hiOK
}

// Tracker tracks intervals keyed by a comparable ID over an ordered key
// space, reporting pairwise disjointness and, optionally, a canonical
// overlay cover.
type Tracker[ID comparable, K rbtree.Ordered] struct {
	tree     *rbtree.Tree[K, ext]
	byID     map[ID]entry[ID, K]
	genCover bool
	nextSeq  uint64

	startFollowedByStart int
}

// New returns an empty tracker. When genCover is true, AddInterval,
// RemoveInterval and ModifyInterval additionally compute and return the
// canonical-cover delta; GetCoveringIntervalID only answers meaningfully
// when genCover is true.
func New[ID comparable, K rbtree.Ordered](genCover bool) *Tracker[ID, K] {
	return &Tracker[ID, K]{
		tree: rbtree.New[K, ext](rbtree.Hooks[K, ext]{
			// counts belong to the key, so they follow it when the
			// successor's key moves into the removed node.
			CopySplicedToRemoved: func(removed, spliced *rbtree.Node[K, ext]) { removed.Ext = spliced.Ext },
		}),
		byID:     make(map[ID]entry[ID, K]),
		genCover: genCover,
	}
}

// AddDelta is the result of AddInterval in canonical-cover mode.
type AddDelta[ID comparable] struct {
	RemovedIntervals []ID
	CoveringInterval ID
	HasCovering      bool
}

// RemoveDelta is the result of RemoveInterval in canonical-cover mode.
type RemoveDelta[ID comparable] struct {
	RestoredIntervals []ID
	ModifiedInterval  ID
	HasModified       bool
}

// AddInterval adds id as the interval [lo,hi] with the given openness.
// Empty intervals (equal endpoints with either side open) are no-ops.
func (t *Tracker[ID, K]) AddInterval(lo, hi K, openLo, openHi bool, id ID) AddDelta[ID] {
	e := entry[ID, K]{lo: lo, hi: hi, openLo: openLo, openHi: openHi}
	if hi < lo {
		e.lo, e.hi = hi, lo
		e.openLo, e.openHi = openHi, openLo
	}
	if e.empty() {
		return AddDelta[ID]{}
	}

	var removed []ID
	if t.genCover {
		for otherID, other := range t.byID {
			if other.containedIn(e) {
				removed = append(removed, otherID)
			}
		}
	}

	e.seq = t.nextSeq
	t.nextSeq++
	if prev, ok := t.byID[id]; ok {
		t.removeBreakpoints(prev)
	}
	t.byID[id] = e
	t.addBreakpoints(e)
	t.recomputeStartFollowedByStart()

	if !t.genCover {
		return AddDelta[ID]{}
	}
	return AddDelta[ID]{RemovedIntervals: removed, CoveringInterval: id, HasCovering: true}
}

// RemoveInterval removes id, if present.
func (t *Tracker[ID, K]) RemoveInterval(id ID) RemoveDelta[ID] {
	e, ok := t.byID[id]
	if !ok {
		return RemoveDelta[ID]{}
	}

	var restored []ID
	if t.genCover {
		for otherID, other := range t.byID {
			if otherID == id || !other.containedIn(e) {
				continue
			}
			stillBuried := false
			for otherID2, other2 := range t.byID {
				if otherID2 == otherID || otherID2 == id {
					continue
				}
				if other.containedIn(other2) {
					stillBuried = true
					break
				}
			}
			if !stillBuried {
				restored = append(restored, otherID)
			}
		}
	}

	delete(t.byID, id)
	t.removeBreakpoints(e)
	t.recomputeStartFollowedByStart()

	if !t.genCover {
		return RemoveDelta[ID]{}
	}
	if modID, ok := t.ownerAt(entry[ID, K]{lo: e.lo, hi: e.lo}, id); ok {
		return RemoveDelta[ID]{RestoredIntervals: restored, ModifiedInterval: modID, HasModified: true}
	}
	return RemoveDelta[ID]{RestoredIntervals: restored}
}

// ModifyInterval replaces id's interval with a new one in a single step,
// reporting the combined add/remove delta with intervals restored then
// immediately re-removed elided.
func (t *Tracker[ID, K]) ModifyInterval(id ID, lo, hi K, openLo, openHi bool) (AddDelta[ID], RemoveDelta[ID]) {
	removeDelta := t.RemoveInterval(id)
	addDelta := t.AddInterval(lo, hi, openLo, openHi, id)

	reRemoved := make(map[ID]bool)
	keptRemoved := removeDelta.RestoredIntervals[:0]
	for _, rid := range removeDelta.RestoredIntervals {
		stillRemoved := false
		for _, aid := range addDelta.RemovedIntervals {
			if aid == rid {
				stillRemoved = true
				break
			}
		}
		if stillRemoved {
			reRemoved[rid] = true
		} else {
			keptRemoved = append(keptRemoved, rid)
		}
	}
	removeDelta.RestoredIntervals = keptRemoved
	keptAddRemoved := addDelta.RemovedIntervals[:0]
	for _, aid := range addDelta.RemovedIntervals {
		if !reRemoved[aid] {
			keptAddRemoved = append(keptAddRemoved, aid)
		}
	}
	addDelta.RemovedIntervals = keptAddRemoved
	return addDelta, removeDelta
}

// IsDisjoint reports whether every currently-tracked interval is pairwise
// disjoint from every other.
func (t *Tracker[ID, K]) IsDisjoint() bool { return t.startFollowedByStart == 0 }

// IsDisjointValue reports whether at most one tracked interval contains v.
func (t *Tracker[ID, K]) IsDisjointValue(v K) bool {
	count := 0
	for _, e := range t.byID {
		if e.contains(v) {
			count++
		}
	}
	return count <= 1
}

// IsDisjointRange reports whether every pair of tracked intervals that
// touches [lo,hi] is pairwise disjoint within that range.
func (t *Tracker[ID, K]) IsDisjointRange(lo, hi K) bool {
	if hi < lo {
		lo, hi = hi, lo
	}
	var touching []entry[ID, K]
	for _, e := range t.byID {
		if !(e.hi < lo || hi < e.lo) {
			touching = append(touching, e)
		}
	}
	for i := range touching {
		for j := i + 1; j < len(touching); j++ {
			if overlap(touching[i], touching[j]) {
				return false
			}
		}
	}
	return true
}

func overlap[ID comparable, K rbtree.Ordered](a, b entry[ID, K]) bool {
	loOK := a.lo < b.hi || (a.lo == b.hi && !a.openLo && !b.openHi)
	hiOK := b.lo < a.hi || (b.lo == a.hi && !b.openLo && !a.openHi)
	return loOK && hiOK
}

// IsDisjointInterval reports whether id's interval, with its end replaced
// by endValue/endOpen, would remain disjoint from every other tracked
// interval.
func (t *Tracker[ID, K]) IsDisjointInterval(id ID, endValue K, endOpen bool) bool {
	e, ok := t.byID[id]
	if !ok {
		return true
	}
	candidate := e
	candidate.hi = endValue
	candidate.openHi = endOpen
	if candidate.hi < candidate.lo {
		candidate.lo, candidate.hi = candidate.hi, candidate.lo
		candidate.openLo, candidate.openHi = candidate.openHi, candidate.openLo
	}
	for otherID, other := range t.byID {
		if otherID == id {
			continue
		}
		if overlap(candidate, other) {
			return false
		}
	}
	return true
}

// GetCoveringIntervalID returns the canonical cover's owner over [lo,hi]
// with the given openness, if any. Meaningful only when the tracker was
// constructed with genCover=true. A single point is queried by passing it
// as both lo and hi, closed on both ends.
func (t *Tracker[ID, K]) GetCoveringIntervalID(lo, hi K, openLo, openHi bool) (ID, bool) {
	q := entry[ID, K]{lo: lo, hi: hi, openLo: openLo, openHi: openHi}
	if hi < lo {
		q.lo, q.hi = hi, lo
		q.openLo, q.openHi = openHi, openLo
	}
	return t.ownerAt(q)
}

// ownerAt finds the cover's owner over q among currently tracked intervals
// (excluding any ID in exclude). A candidate that's properly contained in
// another candidate touching q never owns the cover; among the surviving,
// mutually non-containing candidates the one registered first wins, which
// is what keeps the cover's ID assignment stable as newer, overlapping
// intervals are added and removed around it.
func (t *Tracker[ID, K]) ownerAt(q entry[ID, K], exclude ...ID) (ID, bool) {
	var zero ID
	excluded := make(map[ID]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	type candidate struct {
		id ID
		e  entry[ID, K]
	}
	var candidates []candidate
	for id, e := range t.byID {
		if excluded[id] || !overlap(e, q) {
			continue
		}
		candidates = append(candidates, candidate{id, e})
	}
	if len(candidates) == 0 {
		return zero, false
	}

	var maximal []candidate
	for _, c := range candidates {
		swallowed := false
		for _, other := range candidates {
			if other.id != c.id && c.e.containedIn(other.e) && !other.e.containedIn(c.e) {
				swallowed = true
				break
			}
		}
		if !swallowed {
			maximal = append(maximal, c)
		}
	}

	best := maximal[0]
	for _, c := range maximal[1:] {
		if c.e.seq < best.e.seq {
			best = c
		}
	}
	return best.id, true
}

func (t *Tracker[ID, K]) addBreakpoints(e entry[ID, K]) {
	if e.lo == e.hi {
		n := t.tree.InsertKey(e.lo)
		n.Ext.counts[kindStartClosed]++
		n.Ext.counts[kindEndClosed]++
		return
	}
	loNode := t.tree.InsertKey(e.lo)
	hiNode := t.tree.InsertKey(e.hi)
	if e.openLo {
		loNode.Ext.counts[kindStartOpen]++
	} else {
		loNode.Ext.counts[kindStartClosed]++
	}
	if e.openHi {
		hiNode.Ext.counts[kindEndOpen]++
	} else {
		hiNode.Ext.counts[kindEndClosed]++
	}
}

func (t *Tracker[ID, K]) removeBreakpoints(e entry[ID, K]) {
	if e.lo == e.hi {
		if n := t.tree.FindExact(e.lo); n != nil {
			n.Ext.counts[kindStartClosed]--
			n.Ext.counts[kindEndClosed]--
			t.dropIfEmpty(n)
		}
		return
	}
	if n := t.tree.FindExact(e.lo); n != nil {
		if e.openLo {
			n.Ext.counts[kindStartOpen]--
		} else {
			n.Ext.counts[kindStartClosed]--
		}
		t.dropIfEmpty(n)
	}
	if n := t.tree.FindExact(e.hi); n != nil {
		if e.openHi {
			n.Ext.counts[kindEndOpen]--
		} else {
			n.Ext.counts[kindEndClosed]--
		}
		t.dropIfEmpty(n)
	}
}

func (t *Tracker[ID, K]) dropIfEmpty(n *rbtree.Node[K, ext]) {
	for _, c := range n.Ext.counts {
		if c != 0 {
			return
		}
	}
	t.tree.RemoveKey(n.Key)
}

// recomputeStartFollowedByStart walks the breakpoint sequence directly
// per the definition in the core algorithm: sort all endpoints by (value,
// kind) and count every place a start endpoint is immediately followed by
// another start endpoint, including multiple same-kind starts sharing one
// breakpoint.
func (t *Tracker[ID, K]) recomputeStartFollowedByStart() {
	count := 0
	prevWasStart := false
	for n := t.tree.First(); n != nil; n = n.Next() {
		for k := kindEndOpen; k <= kindStartOpen; k++ {
			c := n.Ext.counts[k]
			if c == 0 {
				continue
			}
			start := isStartKind(k)
			if start && prevWasStart {
				count++
			}
			if start && c > 1 {
				count += c - 1
			}
			prevWasStart = start
		}
	}
	t.startFollowedByStart = count
}
