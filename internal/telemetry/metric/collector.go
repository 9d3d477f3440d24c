package metric

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var entriesDesc = prometheus.NewDesc(
	prometheus.BuildFQName(namespace, "", "container_entries"),
	"Number of entries currently held by a container",
	[]string{"container"}, nil,
)

// Collector reports the size of registered containers at scrape time.
type Collector struct {
	mu    sync.RWMutex
	sizes map[string]func() int
}

// NewCollector creates an empty size collector.
func NewCollector() *Collector {
	return &Collector{sizes: make(map[string]func() int)}
}

// Track registers (or replaces) the size function for a container.
func (c *Collector) Track(container string, size func() int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sizes[container] = size
}

// Untrack stops reporting the named container.
func (c *Collector) Untrack(container string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sizes, container)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- entriesDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	names := make([]string, 0, len(c.sizes))
	for name := range c.sizes {
		names = append(names, name)
	}
	sizes := make([]func() int, len(names))
	sort.Strings(names)
	for i, name := range names {
		sizes[i] = c.sizes[name]
	}
	c.mu.RUnlock()

	// Size functions take the container's own lock; call them unlocked.
	for i, name := range names {
		ch <- prometheus.MustNewConstMetric(entriesDesc, prometheus.GaugeValue, float64(sizes[i]()), name)
	}
}
