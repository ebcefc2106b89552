package qdigest

import (
	"math"
	"math/bits"

	"github.com/hideo55/go-popcount"
)

const (
	bitmapWords = 4  // 4 * 64 == 256 labels
	wordShift   = 6  // label >> 6 selects a bitmap word
	wordMask    = 63 // label & 63 selects a bit inside the word
)

// node is a trie node: an aggregate weight plus byte-labelled children kept in
// ascending label order.
type node struct {
	weight   uint64
	bitmap   [bitmapWords]uint64 // 256 bits representing 2**8 labels
	children []*node
}

// index returns the position label b has (or would have) in children and
// whether the child exists.
func (n *node) index(b byte) (int, bool) {
	var (
		ofs = b >> wordShift
		bit = b & wordMask
		bmp = n.bitmap[ofs]
		cnt = popcount.Count(bmp & ((uint64(1) << bit) - 1))
	)

	for j := byte(0); j < ofs; j++ {
		cnt += popcount.Count(n.bitmap[j])
	}

	return int(cnt), (bmp>>bit)&1 != 0
}

func (n *node) child(b byte) *node {
	idx, ok := n.index(b)
	if !ok {
		return nil
	}

	return n.children[idx]
}

// childOrAdd returns the child labelled b, creating it first if necessary.
// The second result reports whether a node was created.
func (n *node) childOrAdd(b byte) (*node, bool) {
	idx, ok := n.index(b)
	if ok {
		return n.children[idx], false
	}

	next := &node{}

	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = next
	n.bitmap[b>>wordShift] |= uint64(1) << (b & wordMask)

	return next, true
}

// labels appends the labels of all children to dst in ascending order.
func (n *node) labels(dst []byte) []byte {
	for w, bmp := range n.bitmap {
		for bmp != 0 {
			bit := bits.TrailingZeros64(bmp)
			dst = append(dst, byte(w<<wordShift|bit))
			bmp &= bmp - 1
		}
	}

	return dst
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}

// prune drops all children and returns how many nodes were removed.
func (n *node) prune() int {
	removed := 0

	for _, c := range n.children {
		removed += c.size()
	}

	n.children = nil
	n.bitmap = [bitmapWords]uint64{}

	return removed
}

// childWeights sums the own weights of the direct children.
func (n *node) childWeights() uint64 {
	var sum uint64

	for _, c := range n.children {
		sum = addSat(sum, c.weight)
	}

	return sum
}

// size counts the nodes of the subtree rooted at n (n included).
func (n *node) size() int {
	var (
		total    int
		to_visit = []*node{n}
	)

	for l := len(to_visit); l > 0; l = len(to_visit) {
		p := to_visit[l-1]
		to_visit = append(to_visit[:l-1], p.children...)
		total++
	}

	return total
}

// clone returns a deep copy of the subtree rooted at n.
func (n *node) clone() *node {
	type pair struct{ src, dst *node }

	var (
		root     = &node{}
		to_visit = []pair{{n, root}}
	)

	for l := len(to_visit); l > 0; l = len(to_visit) {
		p := to_visit[l-1]
		to_visit = to_visit[:l-1]

		p.dst.weight = p.src.weight
		p.dst.bitmap = p.src.bitmap

		if p.src.isLeaf() {
			continue
		}

		p.dst.children = make([]*node, len(p.src.children))

		for i, c := range p.src.children {
			p.dst.children[i] = &node{}
			to_visit = append(to_visit, pair{c, p.dst.children[i]})
		}
	}

	return root
}

// addSat adds two weights capping the result at math.MaxUint64.
func addSat(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}

	return sum
}
