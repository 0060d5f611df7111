package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimlens/claimlens/internal/filter"
)

func TestGetOrCompute_MemoizesPerOperationAndSpec(t *testing.T) {
	c := New(nil)
	calls := 0
	compute := func() any {
		calls++
		return calls
	}

	v := c.GetOrCompute("summary", filter.Spec{Dealer: "Alpha"}, compute)
	assert.Equal(t, 1, v)

	// Same (op, spec): cached, compute must not run again.
	v = c.GetOrCompute("summary", filter.Spec{Dealer: "Alpha"}, compute)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, calls)

	// Different spec: recompute.
	v = c.GetOrCompute("summary", filter.Spec{Dealer: "Beta"}, compute)
	assert.Equal(t, 2, v)

	// Different operation, same spec: recompute.
	v = c.GetOrCompute("monthly", filter.Spec{Dealer: "Alpha"}, compute)
	assert.Equal(t, 3, v)
	assert.Equal(t, 3, c.Len())
}

func TestNewKey_CanonicalizesSpec(t *testing.T) {
	a := NewKey("summary", filter.Spec{Dealer: "Alpha", Year: "2024"})
	b := NewKey("summary", filter.Spec{Year: "2024", Dealer: "Alpha"})
	assert.Equal(t, a, b)

	// Absent and all-"All" specs share a key.
	empty := NewKey("summary", filter.Spec{})
	alls := NewKey("summary", filter.Spec{Dealer: filter.All, Product: filter.All})
	assert.Equal(t, empty, alls)
	assert.Equal(t, Key("summary"), empty)
}

func TestNewKey_DelimitersInValuesDoNotCollide(t *testing.T) {
	// A dealer value spelling out another dimension must not produce
	// the key of the spec that actually carries that dimension.
	crafted := NewKey("summary", filter.Spec{Dealer: `A"|year="2024`})
	genuine := NewKey("summary", filter.Spec{Dealer: "A", Year: "2024"})
	assert.NotEqual(t, crafted, genuine)
}

func TestFlush_DropsEverything(t *testing.T) {
	c := New(nil)
	calls := 0
	compute := func() any {
		calls++
		return calls
	}

	c.GetOrCompute("summary", filter.Spec{}, compute)
	c.GetOrCompute("monthly", filter.Spec{}, compute)
	require.Equal(t, 2, c.Len())

	c.Flush()
	assert.Equal(t, 0, c.Len())

	c.GetOrCompute("summary", filter.Spec{}, compute)
	assert.Equal(t, 3, calls)
}
