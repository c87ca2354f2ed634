// Package metrics collects per-tick model and agent aggregates, mirroring
// the data-collection step of the original operator console: one model-level
// row per tick plus each person's wealth.
package metrics

import (
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgya/bank-reserves/internal/sim"
)

// reportEvery controls how often the collector writes a summary to the log.
const reportEvery = 100

// Collector accumulates the per-tick history. Safe for one writer (the
// model) and many readers (the API).
type Collector struct {
	mu      sync.Mutex
	history []sim.Stats
	agents  []sim.AgentStat // Most recent tick only
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Collect implements sim.Collector.
func (c *Collector) Collect(stats sim.Stats, agents []sim.AgentStat) {
	c.mu.Lock()
	c.history = append(c.history, stats)
	c.agents = agents
	c.mu.Unlock()

	if stats.Tick%reportEvery == 0 {
		slog.Info("tick report",
			"tick", stats.Tick,
			"rich", stats.Rich,
			"poor", stats.Poor,
			"middle", stats.Middle,
			"savings", humanize.Comma(stats.Savings),
			"wallets", humanize.Comma(stats.Wallets),
			"money", humanize.Comma(stats.Money),
			"loans", humanize.Comma(stats.Loans),
		)
	}
}

// Latest returns the most recent model-level snapshot, if any.
func (c *Collector) Latest() (sim.Stats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.history) == 0 {
		return sim.Stats{}, false
	}
	return c.history[len(c.history)-1], true
}

// History returns a copy of the last n snapshots (all of them if n <= 0).
func (c *Collector) History(n int) []sim.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := 0
	if n > 0 && len(c.history) > n {
		start = len(c.history) - n
	}
	out := make([]sim.Stats, len(c.history)-start)
	copy(out, c.history[start:])
	return out
}

// AgentWealth returns the per-person aggregates from the most recent tick.
func (c *Collector) AgentWealth() []sim.AgentStat {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]sim.AgentStat, len(c.agents))
	copy(out, c.agents)
	return out
}

// Len returns the number of collected snapshots.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}
