package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Duration    time.Duration
	Simulations int
	IsTreeReset bool
	IsProven    bool
}

type Collector interface {
	Start()
	SetTreeReset(value bool)
	SetProven(value bool)
	AddSimulation()
	Complete() SearchMetric
}

type collector struct {
	startTime   time.Time
	simulations atomic.Int32
	isTreeReset atomic.Bool
	isProven    atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.simulations.Store(0)
	m.isProven.Store(false)
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

func (m *collector) SetProven(value bool) {
	m.isProven.Store(value)
}

func (m *collector) AddSimulation() {
	m.simulations.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:    time.Since(m.startTime),
		Simulations: int(m.simulations.Load()),
		IsTreeReset: m.isTreeReset.Load(),
		IsProven:    m.isProven.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                  {}
func (m *dummyCollector) SetTreeReset(value bool) {}
func (m *dummyCollector) SetProven(value bool)    {}
func (m *dummyCollector) AddSimulation()          {}
func (m *dummyCollector) Complete() SearchMetric  { return SearchMetric{} }
