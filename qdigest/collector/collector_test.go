package collector

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanpbrewster/bytestring-histogram/qdigest"
)

func TestCollector(t *testing.T) {
	t.Parallel()

	d := qdigest.NewSync(qdigest.New())
	d.Insert([]byte("0011"), 9)
	d.Insert([]byte("0022"), 9)
	d.Insert([]byte("AA11"), 1)
	d.Insert([]byte("AA22"), 1)
	require.NoError(t, d.Compress(10))

	c := New("app", d, prometheus.Labels{"digest": "paths"})

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	assert.Equal(t, 5, testutil.CollectAndCount(c))

	const expected = `
# HELP app_qdigest_boundaries Number of boundary keys.
# TYPE app_qdigest_boundaries gauge
app_qdigest_boundaries{digest="paths"} 3
# HELP app_qdigest_buckets Number of keys holding positive weight.
# TYPE app_qdigest_buckets gauge
app_qdigest_buckets{digest="paths"} 3
# HELP app_qdigest_nodes Number of trie nodes retained by the digest.
# TYPE app_qdigest_nodes gauge
app_qdigest_nodes{digest="paths"} 8
# HELP app_qdigest_saturated 1 if a weight counter has been capped, 0 otherwise.
# TYPE app_qdigest_saturated gauge
app_qdigest_saturated{digest="paths"} 0
# HELP app_qdigest_total_weight Sum of all weights inserted into the digest.
# TYPE app_qdigest_total_weight gauge
app_qdigest_total_weight{digest="paths"} 20
`

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected)))
}

func TestCollector_FollowsDigest(t *testing.T) {
	t.Parallel()

	d := qdigest.NewSync(qdigest.New())
	c := New("", d, nil)

	const before = `
# HELP qdigest_total_weight Sum of all weights inserted into the digest.
# TYPE qdigest_total_weight gauge
qdigest_total_weight 0
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(before), "qdigest_total_weight"))

	d.Insert([]byte("x"), 42)

	const after = `
# HELP qdigest_total_weight Sum of all weights inserted into the digest.
# TYPE qdigest_total_weight gauge
qdigest_total_weight 42
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(after), "qdigest_total_weight"))
}
