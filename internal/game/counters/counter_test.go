package counters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountersIncrementAndMerge(t *testing.T) {
	cs := NewCounters()
	cs.Increment("mobs_cost_more")
	cs.Increment("mobs_cost_more")
	cs.AddCounter(NewCounter("spells_cost_more", 3))

	assert.Equal(t, 2, cs.GetCount("mobs_cost_more"))
	assert.Equal(t, 3, cs.GetCount("spells_cost_more"))
	assert.Zero(t, cs.GetCount("missing"))
}

func TestCountersCopyIsIndependent(t *testing.T) {
	cs := NewCounters()
	cs.Increment("a")
	cp := cs.Copy()
	cp.Increment("a")

	assert.Equal(t, 1, cs.GetCount("a"))
	assert.Equal(t, 2, cp.GetCount("a"))
}

func TestNilCountersGetCount(t *testing.T) {
	var cs *Counters
	assert.Equal(t, 0, cs.GetCount("a"))
}
