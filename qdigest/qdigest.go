package qdigest

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Digest is the capability shared by the approximate digest and exact references.
type Digest interface {
	Insert(key []byte, weight uint64)
	Quantile(p float64) []byte
}

var (
	_ Digest = (*QDigest)(nil)
	_ Digest = (*Sync)(nil)
)

// QDigest is a quantile digest over weighted byte-string keys.
//
// The zero value is not usable; create digests with New.
type QDigest struct {
	root      *node
	total     uint64
	nodes     int // root included
	saturated bool
	level     uint64
	log       zerolog.Logger
}

// Stats describes the current shape of a digest.
type Stats struct {
	TotalWeight uint64
	Nodes       int
	Buckets     int // nodes carrying positive weight
	Boundaries  int
	Saturated   bool
}

// New returns an empty digest.
func New(opts ...Option) *QDigest {
	d := &QDigest{
		root:  &node{},
		nodes: 1,
		level: DefaultCompressionLevel,
		log:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// TotalWeight returns the sum of every weight ever inserted.
func (d *QDigest) TotalWeight() uint64 {
	return d.total
}

// Len returns the number of trie nodes, the root included.
func (d *QDigest) Len() int {
	return d.nodes
}

// Saturated reports whether a weight counter has been capped at math.MaxUint64.
// Once it has, weights are no longer conserved exactly.
func (d *QDigest) Saturated() bool {
	return d.saturated
}

// Insert adds weight to the exact key. Any byte sequence, including an empty one,
// is a valid key. Weights are accumulated with saturating addition.
func (d *QDigest) Insert(key []byte, weight uint64) {
	d.total = d.accumulate(d.total, weight)

	cur := d.root

	for _, b := range key {
		next, created := cur.childOrAdd(b)
		if created {
			d.nodes++
		}
		cur = next
	}

	cur.weight = d.accumulate(cur.weight, weight)
}

func (d *QDigest) accumulate(a, b uint64) uint64 {
	if math.MaxUint64-a < b {
		d.saturated = true
		return math.MaxUint64
	}

	return a + b
}

// Compress folds every subtree whose aggregate weight does not exceed
// TotalWeight()/k into its top node. Larger k retains finer resolution.
//
// k must be positive, otherwise an error wrapping ErrInvalidArgument is returned and
// the digest is left untouched. Repeating a call with the same k changes nothing.
func (d *QDigest) Compress(k uint64) error {
	if k == 0 {
		d.log.Warn().Uint64("k", k).Msg("compress rejected")
		return fmt.Errorf("compress with k=%d: %w", k, ErrInvalidArgument)
	}

	var (
		start     = time.Now()
		before    = d.nodes
		threshold = d.total / k
	)

	d.nodes -= fold(d.root, threshold)

	d.log.Debug().
		Uint64("k", k).
		Uint64("threshold", threshold).
		Int("nodes_before", before).
		Int("nodes_after", d.nodes).
		Dur("elapsed", time.Since(start)).
		Msg("compressed")

	return nil
}

// CompressDefault compresses with the level configured by WithCompressionLevel.
func (d *QDigest) CompressDefault() error {
	return d.Compress(d.level)
}

// foldFrame is a post-order cursor: next is the index of the next child to visit,
// sum accumulates the aggregates of the children visited so far.
type foldFrame struct {
	n    *node
	next int
	sum  uint64
}

// fold compresses the subtree rooted at root and returns the number of pruned nodes.
func fold(root *node, threshold uint64) int {
	var (
		removed int
		stack   = []foldFrame{{n: root}}
	)

	for l := len(stack); l > 0; l = len(stack) {
		top := &stack[l-1]

		if top.next < len(top.n.children) {
			child := top.n.children[top.next]
			top.next++
			stack = append(stack, foldFrame{n: child})
			continue
		}

		total := addSat(top.n.weight, top.sum)

		if total <= threshold {
			// every child is a folded leaf by now
			top.n.weight = total
			removed += top.n.prune()
		}

		stack = stack[:l-1]

		if l > 1 {
			parent := &stack[l-2]
			parent.sum = addSat(parent.sum, total)
		}
	}

	return removed
}

// Clone returns an independent deep copy of the digest.
func (d *QDigest) Clone() *QDigest {
	c := *d
	c.root = d.root.clone()

	return &c
}

// Reset drops all data, keeping the options.
func (d *QDigest) Reset() {
	d.root = &node{}
	d.total = 0
	d.nodes = 1
	d.saturated = false
}

// Stats walks the trie and reports its shape.
func (d *QDigest) Stats() Stats {
	s := Stats{
		TotalWeight: d.total,
		Nodes:       d.nodes,
		Saturated:   d.saturated,
	}

	d.walk(func(_ []byte, n *node) bool {
		if n.weight > 0 {
			s.Buckets++
		}
		if isBoundary(n) {
			s.Boundaries++
		}
		return true
	})

	return s
}
