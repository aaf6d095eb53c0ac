// Package observability collects lightweight usage counters from the event
// bus, reported once at shutdown.
package observability

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/ganai-labs/voiceagents/internal/eventbus"
)

// UsageCollector counts bus traffic per topic. It plugs into the bus as an
// Observer and costs one map increment per publish.
type UsageCollector struct {
	mu     sync.Mutex
	counts map[eventbus.Topic]uint64
}

// NewUsageCollector creates an empty collector.
func NewUsageCollector() *UsageCollector {
	return &UsageCollector{counts: make(map[eventbus.Topic]uint64)}
}

// OnPublish implements eventbus.Observer.
func (c *UsageCollector) OnPublish(env eventbus.Envelope) {
	c.mu.Lock()
	c.counts[env.Topic]++
	c.mu.Unlock()
}

// Count returns the number of events seen on topic.
func (c *UsageCollector) Count(topic eventbus.Topic) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[topic]
}

// Summary renders the counters as one line, topics sorted.
func (c *UsageCollector) Summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.counts) == 0 {
		return "no events recorded"
	}
	topics := make([]string, 0, len(c.counts))
	for topic := range c.counts {
		topics = append(topics, string(topic))
	}
	sort.Strings(topics)

	parts := make([]string, 0, len(topics))
	for _, topic := range topics {
		parts = append(parts, fmt.Sprintf("%s=%d", topic, c.counts[eventbus.Topic(topic)]))
	}
	return strings.Join(parts, " ")
}

// LogSummary writes the usage summary to the standard logger.
func (c *UsageCollector) LogSummary() {
	log.Printf("[Usage] %s", c.Summary())
}
