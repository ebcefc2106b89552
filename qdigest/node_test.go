package qdigest

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_ChildOrAdd(t *testing.T) {
	t.Parallel()

	var (
		n       = &node{}
		created = map[byte]*node{}
	)

	for _, tcase := range []*struct {
		Label  byte
		ExpNew bool
	}{
		{200, true},
		{3, true},
		{64, true},
		{0, true},
		{255, true},
		{63, true},
		{3, false},
		{255, false},
		{0, false},
	} {
		var (
			tcase = tcase
			name  = fmt.Sprintf("%#v", tcase.Label)
		)

		t.Run(name, func(t *testing.T) {
			c, ok := n.childOrAdd(tcase.Label)

			require.NotNil(t, c)
			assert.Equal(t, tcase.ExpNew, ok)

			if ok {
				created[tcase.Label] = c
			}

			// every child created so far is still reachable by its label
			for label, exp := range created {
				assert.Same(t, exp, n.child(label), label)
			}
		})
	}

	assert.Equal(t, []byte{0, 3, 63, 64, 200, 255}, n.labels(nil))
	assert.Len(t, n.children, 6)
	assert.Nil(t, n.child(1))
	assert.Nil(t, n.child(254))
}

func TestNode_Index(t *testing.T) {
	t.Parallel()

	n := &node{}
	for _, b := range []byte{1, 70, 130, 250} {
		n.childOrAdd(b)
	}

	for _, tcase := range []*struct {
		Label  byte
		ExpIdx int
		ExpOK  bool
	}{
		{0, 0, false},
		{1, 0, true},
		{2, 1, false},
		{70, 1, true},
		{128, 2, false},
		{130, 2, true},
		{250, 3, true},
		{255, 4, false},
	} {
		var (
			tcase = tcase
			name  = fmt.Sprintf("%#v", tcase.Label)
		)

		t.Run(name, func(t *testing.T) {
			idx, ok := n.index(tcase.Label)

			assert.Equal(t, tcase.ExpIdx, idx)
			assert.Equal(t, tcase.ExpOK, ok)
		})
	}
}

func TestNode_PruneSizeClone(t *testing.T) {
	t.Parallel()

	root := &node{weight: 1}
	a, _ := root.childOrAdd('a')
	a.weight = 2
	ab, _ := a.childOrAdd('b')
	ab.weight = 3
	c, _ := root.childOrAdd('c')
	c.weight = 4

	assert.Equal(t, 4, root.size())
	assert.Equal(t, uint64(6), root.childWeights())
	assert.False(t, root.isLeaf())

	cp := root.clone()

	assert.Equal(t, 1, a.prune())
	assert.True(t, a.isLeaf())
	assert.Nil(t, a.child('b'))
	assert.Equal(t, 3, root.size())

	// the clone is unaffected
	assert.Equal(t, 4, cp.size())
	require.NotNil(t, cp.child('a'))
	require.NotNil(t, cp.child('a').child('b'))
	assert.Equal(t, uint64(3), cp.child('a').child('b').weight)
	assert.NotSame(t, a, cp.child('a'))
}

func TestAddSat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(5), addSat(2, 3))
	assert.Equal(t, uint64(math.MaxUint64), addSat(math.MaxUint64, 1))
	assert.Equal(t, uint64(math.MaxUint64), addSat(math.MaxUint64-1, 1))
	assert.Equal(t, uint64(math.MaxUint64), addSat(math.MaxUint64/2+1, math.MaxUint64/2+1))
}
