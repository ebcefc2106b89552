package qdigest

import "math"

// Bucket is a key holding a distinguishable share of the total weight.
type Bucket struct {
	Key    []byte
	Weight uint64
}

// maxGas is 2**64, the first float64 not representable as an uint64.
const maxGas = float64(1 << 64)

// budget returns floor(total*p) with p clamped to [0, 1]; NaN counts as 0.
func budget(total uint64, p float64) uint64 {
	switch {
	case math.IsNaN(p) || p <= 0:
		return 0
	case p >= 1:
		return total
	}

	f := math.Floor(float64(total) * p)
	if f >= maxGas {
		return total
	}

	// float64(total) may round up
	return min(uint64(f), total)
}

// Quantile returns a key that is never greater than the exact p-th weighted
// quantile of the inserted keys.
//
// p is clamped to [0, 1] and NaN is treated as 0. Quantile(0) is the smallest
// key holding weight, Quantile(1) the greatest. An empty digest yields an empty key.
func (d *QDigest) Quantile(p float64) []byte {
	var (
		gas    = budget(d.total, p)
		result = []byte{}
	)

	d.walk(func(key []byte, n *node) bool {
		if n.weight == 0 {
			return true
		}

		result = append(result[:0], key...)

		if gas <= n.weight {
			return false // found
		}

		gas -= n.weight

		return true
	})

	return result
}

// Boundaries returns, in ascending order, the keys of all nodes whose own weight
// exceeds the summed weight of their children.
func (d *QDigest) Boundaries() [][]byte {
	keys := [][]byte{}

	d.walk(func(key []byte, n *node) bool {
		if isBoundary(n) {
			keys = append(keys, append([]byte{}, key...))
		}
		return true
	})

	return keys
}

func isBoundary(n *node) bool {
	return n.childWeights() < n.weight
}

// Buckets returns every key holding positive weight in ascending order. The weights
// add up to TotalWeight unless the digest is saturated.
func (d *QDigest) Buckets() []Bucket {
	buckets := []Bucket{}

	d.walk(func(key []byte, n *node) bool {
		if n.weight > 0 {
			buckets = append(buckets, Bucket{
				Key:    append([]byte{}, key...),
				Weight: n.weight,
			})
		}
		return true
	})

	return buckets
}

// Walk calls fn for every node in ascending key order, the root (empty key) first.
// The key slice is reused between calls; fn must copy it to retain it.
// Returning false stops the walk.
func (d *QDigest) Walk(fn func(key []byte, weight uint64) bool) {
	d.walk(func(key []byte, n *node) bool {
		return fn(key, n.weight)
	})
}

type cursor struct {
	n     *node
	depth int
	label byte
}

// walk is a pre-order depth-first traversal visiting children in ascending label
// order, which visits keys in lexicographic order. It runs on an explicit stack.
func (d *QDigest) walk(fn func(key []byte, n *node) bool) {
	var (
		path   []byte
		labels []byte
		stack  = []cursor{{n: d.root}}
	)

	for l := len(stack); l > 0; l = len(stack) {
		cur := stack[l-1]
		stack = stack[:l-1]

		if cur.depth > 0 {
			path = append(path[:cur.depth-1], cur.label)
		}

		if !fn(path, cur.n) {
			return
		}

		labels = cur.n.labels(labels[:0])

		for i := len(labels) - 1; i >= 0; i-- {
			stack = append(stack, cursor{
				n:     cur.n.children[i],
				depth: cur.depth + 1,
				label: labels[i],
			})
		}
	}
}
