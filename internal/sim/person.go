// Person agents — random walk, chance trades, and settlement via the bank.

package sim

import (
	"github.com/talgya/bank-reserves/internal/entropy"
	"github.com/talgya/bank-reserves/internal/grid"
)

// PersonID is a unique, stable identifier for a person.
type PersonID uint64

// tradeProbability is the chance that co-located persons trade at all.
const tradeProbability = 0.5

// tradeAmounts are the possible trade sizes in dollars, each equally likely.
var tradeAmounts = []int64{2, 5}

// Person is one member of the population. Wallet is liquid cash on hand,
// Savings is held at the bank, Loans is owed to the bank. All three stay
// non-negative for the whole run.
type Person struct {
	ID       PersonID   `json:"id"`
	Position grid.Coord `json:"position"`
	Wallet   int64      `json:"wallet"`
	Savings  int64      `json:"savings"`
	Loans    int64      `json:"loans"`
}

// GridID implements grid.Occupant.
func (p *Person) GridID() uint64 { return uint64(p.ID) }

// Wealth returns the person's reporting wealth: wallet plus savings.
func (p *Person) Wealth() int64 { return p.Wallet + p.Savings }

// Step runs the person's per-tick pipeline: move, discover co-located
// peers, gate, pick trade terms, settle. Runs to completion before the next
// person steps.
func (p *Person) Step(m *Model) {
	// Move to a uniformly random cell of the Moore neighborhood.
	cells := m.space.Neighborhood(p.Position, true)
	next := cells[m.rng.Intn(len(cells))]
	m.space.Move(p, next)
	p.Position = next

	peers := m.colocatedPeers(p)
	if len(peers) == 0 {
		return
	}

	if !entropy.Bernoulli(m.rng, tradeProbability) {
		return
	}

	// One partner, uniform among co-located peers. Amount and direction are
	// drawn independently, so the four (amount × direction) outcomes are
	// equally likely.
	partner := peers[m.rng.Intn(len(peers))]
	amount := entropy.PickInt64(m.rng, tradeAmounts)
	if m.rng.Intn(2) == 0 {
		amount = -amount // self pays peer
	}

	// Each side resolves its own shortfall independently; there is no
	// atomic two-party transaction.
	p.settle(amount, m.bank)
	partner.settle(-amount, m.bank)
}

// settle applies a signed trade amount. Receipts go straight into savings.
// Payments draw savings down first; any shortfall becomes a loan request.
func (p *Person) settle(delta int64, bank *Bank) {
	switch {
	case delta > 0:
		p.Savings += delta
		bank.Deposit(delta)
	case delta < 0:
		owed := -delta
		drawn := owed
		if p.Savings < owed {
			drawn = p.Savings
		}
		if drawn > 0 {
			p.Savings -= drawn
			bank.Withdraw(drawn)
		}
		if shortfall := owed - drawn; shortfall > 0 {
			p.Loans += bank.RequestLoan(shortfall)
		}
	}
}

// Class returns the person's current wealth classification.
func (p *Person) Class(richThreshold int64) Class {
	return Classify(p.Savings, p.Loans, richThreshold)
}

// Portrayal returns the structured render descriptor for this person,
// derived from the same classification that feeds the statistics.
func (p *Person) Portrayal(richThreshold int64) Portrayal {
	return Portrayal{
		Shape: "circle",
		Color: p.Class(richThreshold).color(),
		Layer: 0,
		R:     0.5,
		X:     p.Position.X,
		Y:     p.Position.Y,
	}
}
