// Package oracle provides an exact weighted order-statistics reference used to
// validate approximate digests in differential tests.
//
// Keys are stored in a crit-bit tree. A key is read as a sequence of 9-bit symbols:
// 0x100|byte for every byte of the key followed by an implicit 0 once the key ends,
// so that a key sorts before all of its extensions (NUL bytes included).
package oracle

import (
	"math"
	"math/bits"
)

// WeightedKey is a key with its exact accumulated weight.
type WeightedKey struct {
	Key    []byte
	Weight uint64
}

// ref holds either a WeightedKey or a crit node
type ref struct {
	WeightedKey
	node *critNode
}

type critNode struct {
	child [2]ref
	// off is the offset of the differing symbol
	off int
	// bit contains the single crit bit in the differing symbol
	bit uint16
}

// Oracle answers quantile queries exactly by keeping every distinct key.
type Oracle struct {
	size  int
	total uint64
	root  ref
}

func New() *Oracle {
	return &Oracle{}
}

func symbol(key []byte, off int) uint16 {
	if off < len(key) {
		return 0x100 | uint16(key[off])
	}
	return 0
}

// dir calculates the direction for the given key
func (n *critNode) dir(key []byte) int {
	if symbol(key, n.off)&n.bit != 0 {
		return 1
	}
	return 0
}

// Len returns the number of distinct keys.
func (o *Oracle) Len() int {
	return o.size
}

// TotalWeight returns the sum of all inserted weights (saturating).
func (o *Oracle) TotalWeight() uint64 {
	return o.total
}

// Get returns the weight accumulated by the key.
func (o *Oracle) Get(key []byte) uint64 {
	if o.size == 0 {
		return 0
	}

	p := &o.root
	for p.node != nil {
		p = &p.node.child[p.node.dir(key)]
	}

	if string(p.Key) != string(key) {
		return 0
	}

	return p.Weight
}

// Insert adds weight to the key.
func (o *Oracle) Insert(key []byte, weight uint64) {
	o.total = addSat(o.total, weight)

	o.replace(key, func(prev uint64) uint64 {
		return addSat(prev, weight)
	})
}

// replace applies a func to the previous weight of a key and stores the result.
func (o *Oracle) replace(key []byte, replace func(uint64) uint64) {
	if o.size == 0 {
		o.root = ref{WeightedKey: WeightedKey{Key: cloneKey(key), Weight: replace(0)}}
		o.size++
		return
	}

	// walk for best member
	p := &o.root
	for p.node != nil {
		p = &p.node.child[p.node.dir(key)]
	}

	// find differing symbol
	var (
		off  int
		ch   uint16
		diff uint16
		end  = max(len(key), len(p.Key))
	)

	for ; off < end; off++ {
		ch = symbol(p.Key, off)
		if diff = ch ^ symbol(key, off); diff != 0 {
			break
		}
	}

	if diff == 0 {
		// key exists - just replace its weight
		p.Weight = replace(p.Weight)
		return
	}

	// keep the most significant differing bit
	bit := uint16(1) << (bits.Len16(diff) - 1)

	ndir := 0
	if ch&bit != 0 {
		ndir = 1
	}

	nn := &critNode{off: off, bit: bit}
	nn.child[1-ndir].WeightedKey = WeightedKey{Key: cloneKey(key), Weight: replace(0)}

	// walk for best insertion node
	wp := &o.root
	for wp.node != nil {
		n := wp.node
		if n.off > off || n.off == off && n.bit < bit {
			break
		}
		wp = &n.child[n.dir(key)]
	}

	nn.child[ndir] = *wp
	*wp = ref{node: nn}
	o.size++
}

// Iter calls a handler for all keys in ascending order until it returns false.
func (o *Oracle) Iter(handler func(WeightedKey) bool) {
	if o.size == 0 {
		return
	}

	// walk the tree without function recursion
	to_visit := []*ref{&o.root}

	for l := len(to_visit); l > 0; l = len(to_visit) {
		p := to_visit[l-1]
		to_visit = to_visit[:l-1]

		if p.node == nil {
			if !handler(p.WeightedKey) {
				return
			}
			continue
		}

		to_visit = append(to_visit, &p.node.child[1], &p.node.child[0])
	}
}

// Keys returns all keys in ascending order.
func (o *Oracle) Keys() [][]byte {
	keys := make([][]byte, 0, o.size)

	o.Iter(func(wk WeightedKey) bool {
		keys = append(keys, wk.Key)
		return true
	})

	return keys
}

// Quantile returns the exact p-th weighted quantile: the first key, in ascending
// order, at which the cumulative weight reaches floor(TotalWeight()*p).
//
// p is clamped to [0, 1] (NaN counts as 0). Keys with zero weight are skipped.
func (o *Oracle) Quantile(p float64) []byte {
	var (
		gas    = budget(o.total, p)
		result = []byte{}
	)

	o.Iter(func(wk WeightedKey) bool {
		if wk.Weight == 0 {
			return true
		}

		result = append(result[:0], wk.Key...)

		if gas <= wk.Weight {
			return false
		}

		gas -= wk.Weight

		return true
	})

	return result
}

func budget(total uint64, p float64) uint64 {
	switch {
	case math.IsNaN(p) || p <= 0:
		return 0
	case p >= 1:
		return total
	}

	f := math.Floor(float64(total) * p)
	if f >= float64(1<<64) {
		return total
	}

	return min(uint64(f), total)
}

func addSat(a, b uint64) uint64 {
	if math.MaxUint64-a < b {
		return math.MaxUint64
	}
	return a + b
}

func cloneKey(key []byte) []byte {
	return append([]byte{}, key...)
}
