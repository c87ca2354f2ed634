// Package sim implements the bank reserves model: person agents, the single
// bank, the random-activation scheduler, and the model driver that wires
// them to the grid and advances them one tick at a time.
package sim

import (
	"sync"

	"github.com/google/uuid"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/bank-reserves/internal/config"
	"github.com/talgya/bank-reserves/internal/entropy"
	"github.com/talgya/bank-reserves/internal/grid"
)

// wealthFieldScale controls how quickly the optional initial-wealth noise
// field varies across the grid. Larger values mean broader rich and poor
// neighborhoods.
const wealthFieldScale = 6.0

// Stats is the model-level aggregate view collected after every tick.
type Stats struct {
	Tick    uint64 `json:"tick"`
	Rich    int    `json:"rich"`
	Poor    int    `json:"poor"`
	Middle  int    `json:"middle"`
	Savings int64  `json:"savings"`
	Wallets int64  `json:"wallets"`
	Money   int64  `json:"money"`
	Loans   int64  `json:"loans"`
}

// AgentStat is the per-person aggregate view.
type AgentStat struct {
	ID     PersonID `json:"id"`
	Wealth int64    `json:"wealth"`
	Class  string   `json:"class"`
}

// Collector receives the model- and agent-level aggregates after each tick.
type Collector interface {
	Collect(Stats, []AgentStat)
}

// Model owns the complete simulation state. All mutation happens inside
// Step; read accessors take the same lock so an external observer can poll
// between ticks.
type Model struct {
	mu sync.Mutex

	cfg    config.Config
	runID  uuid.UUID
	rng    entropy.Source
	space  *grid.Torus
	bank   *Bank
	people []*Person
	sched  *Scheduler
	tick   uint64

	// Collector, if set, is invoked after every completed tick.
	Collector Collector
}

// NewModel validates the configuration and builds the initial population:
// random positions, random non-negative wallets, zero savings and loans.
func NewModel(cfg config.Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		cfg:   cfg,
		runID: uuid.New(),
		rng:   entropy.NewSource(cfg.Seed),
		space: grid.NewTorus(cfg.Width, cfg.Height),
		bank:  NewBank(cfg.ReservePercent, cfg.StrictReserve),
		sched: &Scheduler{},
	}

	var field opensimplex.Noise
	if cfg.WealthField {
		field = opensimplex.NewNormalized(cfg.Seed)
	}

	for i := 0; i < cfg.InitPeople; i++ {
		pos := grid.Coord{
			X: m.rng.Intn(cfg.Width),
			Y: m.rng.Intn(cfg.Height),
		}
		p := &Person{
			ID:       PersonID(i),
			Position: pos,
			Wallet:   m.seedWallet(pos, field),
		}
		m.space.Place(p, pos)
		m.people = append(m.people, p)
		m.sched.Add(p)
	}

	return m, nil
}

// seedWallet draws a starting wallet. The default is uniform in
// [1, rich_threshold]; with the wealth field enabled the amount follows a
// smooth noise field over the grid instead, clustering starting wealth.
func (m *Model) seedWallet(pos grid.Coord, field opensimplex.Noise) int64 {
	if m.cfg.RichThreshold <= 0 {
		return 0
	}
	if field != nil {
		n := field.Eval2(float64(pos.X)/wealthFieldScale, float64(pos.Y)/wealthFieldScale)
		return 1 + int64(n*float64(m.cfg.RichThreshold))
	}
	return 1 + m.rng.Int63n(m.cfg.RichThreshold)
}

// Step advances the model by exactly one tick: a full scheduler pass, then
// data collection.
func (m *Model) Step() {
	m.mu.Lock()
	m.tick++
	m.sched.Step(m.rng, func(p *Person) { p.Step(m) })
	stats := m.statsLocked()
	agentStats := m.agentStatsLocked()
	m.mu.Unlock()

	if m.Collector != nil {
		m.Collector.Collect(stats, agentStats)
	}
}

// Tick returns the number of completed ticks.
func (m *Model) Tick() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tick
}

// RunID identifies this run in persisted snapshots.
func (m *Model) RunID() uuid.UUID { return m.runID }

// Config returns the model's immutable configuration.
func (m *Model) Config() config.Config { return m.cfg }

// Bank exposes the bank's aggregate view for reporting.
func (m *Model) Bank() *Bank { return m.bank }

// colocatedPeers returns every other person sharing p's cell.
func (m *Model) colocatedPeers(p *Person) []*Person {
	occupants := m.space.Occupants(p.Position)
	peers := make([]*Person, 0, len(occupants))
	for _, o := range occupants {
		if other, ok := o.(*Person); ok && other.ID != p.ID {
			peers = append(peers, other)
		}
	}
	return peers
}

// Stats returns the current model-level aggregates.
func (m *Model) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsLocked()
}

func (m *Model) statsLocked() Stats {
	s := Stats{Tick: m.tick}
	for _, p := range m.people {
		switch p.Class(m.cfg.RichThreshold) {
		case ClassRich:
			s.Rich++
		case ClassPoor:
			s.Poor++
		default:
			s.Middle++
		}
		s.Savings += p.Savings
		s.Wallets += p.Wallet
		s.Loans += p.Loans
	}
	s.Money = s.Savings + s.Wallets
	return s
}

// AgentStats returns the per-person aggregate view.
func (m *Model) AgentStats() []AgentStat {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.agentStatsLocked()
}

func (m *Model) agentStatsLocked() []AgentStat {
	out := make([]AgentStat, len(m.people))
	for i, p := range m.people {
		out[i] = AgentStat{
			ID:     p.ID,
			Wealth: p.Wealth(),
			Class:  p.Class(m.cfg.RichThreshold).String(),
		}
	}
	return out
}

// People returns value copies of every person's current state.
func (m *Model) People() []Person {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Person, len(m.people))
	for i, p := range m.people {
		out[i] = *p
	}
	return out
}

// Portrayals returns the render descriptor for every person.
func (m *Model) Portrayals() []Portrayal {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Portrayal, len(m.people))
	for i, p := range m.people {
		out[i] = p.Portrayal(m.cfg.RichThreshold)
	}
	return out
}
