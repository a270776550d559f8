package metrics

import "sync/atomic"

// SearchMetric summarizes one driver pass over the tree.
type SearchMetric struct {
	Nodes               int // nodes constructed
	TranspositionHits   int // candidates matched to an existing node
	TranspositionMisses int
	Bytes               uintptr // approximate footprint of constructed nodes
}

type Collector interface {
	AddNode(size uintptr)
	AddTranspositionHit()
	AddTranspositionMiss()
	Complete() SearchMetric
}

type collector struct {
	nodes  atomic.Int64
	hits   atomic.Int64
	misses atomic.Int64
	bytes  atomic.Uint64
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) AddNode(size uintptr) {
	c.nodes.Add(1)
	c.bytes.Add(uint64(size))
}

func (c *collector) AddTranspositionHit() {
	c.hits.Add(1)
}

func (c *collector) AddTranspositionMiss() {
	c.misses.Add(1)
}

func (c *collector) Complete() SearchMetric {
	return SearchMetric{
		Nodes:               int(c.nodes.Load()),
		TranspositionHits:   int(c.hits.Load()),
		TranspositionMisses: int(c.misses.Load()),
		Bytes:               uintptr(c.bytes.Load()),
	}
}

type dummyCollector struct{}

// NewDummyCollector returns a collector that records nothing, for drivers
// that do not track search metrics.
func NewDummyCollector() Collector {
	return dummyCollector{}
}

func (dummyCollector) AddNode(uintptr)        {}
func (dummyCollector) AddTranspositionHit()   {}
func (dummyCollector) AddTranspositionMiss()  {}
func (dummyCollector) Complete() SearchMetric { return SearchMetric{} }
