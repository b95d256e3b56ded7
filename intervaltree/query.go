package intervaltree

import "github.com/jakub-m/intervalcore/rbtree"

// Find returns every interval ID whose interval contains x, including
// degenerate (single-point) and whole-domain intervals. It walks a single
// root-to-x descent, the mirror image of the registerSpan walk: an
// interval registers on exactly one node or empty-child slot along that
// path (the point where its span first became fully contained), so
// collecting every node's end/dontEnd set along the descent, plus the
// landing node's closed-endpoint sets, recovers the full covering set.
func (t *Tree[ID, K]) Find(x K) []ID {
	out := append([]ID(nil), t.domain.Items()...)
	if root := t.tree.Root(); root != nil {
		collectAtPoint(root, x, &out)
	}
	return dedup(out)
}

func collectAtPoint[K rbtree.Ordered, ID comparable](n *node[K, ID], x K, out *[]ID) {
	*out = append(*out, n.Ext.end.Items()...)
	*out = append(*out, n.Ext.dontEnd.Items()...)
	switch {
	case x == n.Key:
		*out = append(*out, n.Ext.lowEnd.Items()...)
		*out = append(*out, n.Ext.highEnd.Items()...)
		*out = append(*out, n.Ext.degenerate.Items()...)
	case x < n.Key:
		if left := n.Left(); left != nil {
			collectAtPoint(left, x, out)
		} else {
			*out = append(*out, n.Ext.leftSlotEnd.Items()...)
			*out = append(*out, n.Ext.leftSlotDontEnd.Items()...)
		}
	default:
		if right := n.Right(); right != nil {
			collectAtPoint(right, x, out)
		} else {
			*out = append(*out, n.Ext.rightSlotEnd.Items()...)
			*out = append(*out, n.Ext.rightSlotDontEnd.Items()...)
		}
	}
}

// overlaps reports whether [lo,hi], with its own openness, intersects
// rec's interval, with rec's openness. Both sides of the comparison treat
// an open bound as excluding the shared endpoint value, so a stored open
// interval like (5,15) does not intersect the degenerate closed query
// point (5,5): 5 belongs to neither.
func overlaps[K rbtree.Ordered](rec record[K], lo, hi K, openLo, openHi bool) bool {
	if rec.wholeDomain {
		return true
	}
	loOK := rec.lo < hi || (rec.lo == hi && !rec.openLo && !openHi)
	hiOK := lo < rec.hi || (lo == rec.hi && !openLo && !rec.openHi)
	return loOK && hiOK
}

// contains reports whether rec's interval lies entirely within [lo,hi],
// with the bound's own openness: a closed bound endpoint accepts a
// touching rec endpoint of either openness, an open bound endpoint only
// accepts a rec endpoint that is itself open there.
func contains[K rbtree.Ordered](rec record[K], lo, hi K, openLo, openHi bool) bool {
	loOK := lo < rec.lo || (lo == rec.lo && (!openLo || rec.openLo))
	hiOK := rec.hi < hi || (rec.hi == hi && (!openHi || rec.openHi))
	return loOK && hiOK
}

// FindIntersections returns every interval ID whose interval intersects
// [lo,hi] with the given openness. Implemented as a side-table scan
// rather than a tree walk: the registration sets answer single-point
// stabbing queries directly, but answering a range-stabbing query from
// them would require merging registrations across a whole subtree range,
// which the side table does far more simply at the cost of
// linear-in-interval-count work.
func (t *Tree[ID, K]) FindIntersections(lo, hi K, openLo, openHi bool) []ID {
	if hi < lo {
		lo, hi = hi, lo
		openLo, openHi = openHi, openLo
	}
	var out []ID
	for id, rec := range t.byID {
		if overlaps(rec, lo, hi, openLo, openHi) {
			out = append(out, id)
		}
	}
	return dedup(out)
}

// FindContained returns every interval ID whose interval lies entirely
// within [lo,hi] with the given openness.
func (t *Tree[ID, K]) FindContained(lo, hi K, openLo, openHi bool) []ID {
	if hi < lo {
		lo, hi = hi, lo
		openLo, openHi = openHi, openLo
	}
	var out []ID
	for id, rec := range t.byID {
		if rec.wholeDomain {
			continue
		}
		if contains(rec, lo, hi, openLo, openHi) {
			out = append(out, id)
		}
	}
	return dedup(out)
}

// FindWithUpperBound returns every interval ID whose interval intersects
// [lo,hi] (with the given openness) and whose own upper endpoint stays
// within the bound ub (open per ubOpen) — i.e. the interval both touches
// the query range and never extends past the bound. A whole-domain
// interval has no finite upper endpoint, so it never satisfies the bound.
func (t *Tree[ID, K]) FindWithUpperBound(lo, hi K, openLo, openHi bool, ub K, ubOpen bool) []ID {
	if hi < lo {
		lo, hi = hi, lo
		openLo, openHi = openHi, openLo
	}
	var out []ID
	for id, rec := range t.byID {
		if rec.wholeDomain {
			continue
		}
		if !overlaps(rec, lo, hi, openLo, openHi) {
			continue
		}
		if rec.hi < ub || (rec.hi == ub && (!ubOpen || rec.openHi)) {
			out = append(out, id)
		}
	}
	return dedup(out)
}

// FindWithLowerBound returns every interval ID whose interval intersects
// [lo,hi] (with the given openness) and whose own lower endpoint stays
// within the bound lb (open per lbOpen) — i.e. the interval both touches
// the query range and never starts before the bound. A whole-domain
// interval has no finite lower endpoint, so it never satisfies the bound.
func (t *Tree[ID, K]) FindWithLowerBound(lo, hi K, openLo, openHi bool, lb K, lbOpen bool) []ID {
	if hi < lo {
		lo, hi = hi, lo
		openLo, openHi = openHi, openLo
	}
	var out []ID
	for id, rec := range t.byID {
		if rec.wholeDomain {
			continue
		}
		if !overlaps(rec, lo, hi, openLo, openHi) {
			continue
		}
		if lb < rec.lo || (lb == rec.lo && (!lbOpen || rec.openLo)) {
			out = append(out, id)
		}
	}
	return dedup(out)
}

// ImportFromDegenerateTree builds a new interval tree from a flat set of
// already-known interval bounds by calling InsertInterval once per entry.
// It does not bulk-load: each entry is inserted, and rebalanced, one at a
// time.
func ImportFromDegenerateTree[ID comparable, K rbtree.Ordered](bounds map[ID][2]K, openLo, openHi map[ID]bool) *Tree[ID, K] {
	t := New[ID, K]()
	for id, b := range bounds {
		t.InsertInterval(id, b[0], b[1], openLo[id], openHi[id])
	}
	return t
}

func dedup[ID comparable](ids []ID) []ID {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[ID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
