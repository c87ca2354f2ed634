// Random-activation scheduler: every person steps exactly once per tick,
// in a fresh uniform random permutation each time.

package sim

import "github.com/talgya/bank-reserves/internal/entropy"

// Scheduler orders and invokes person steps.
type Scheduler struct {
	people []*Person
}

// Add registers a person. Registration order does not affect step order.
func (s *Scheduler) Add(p *Person) {
	s.people = append(s.people, p)
}

// Len returns the number of registered persons.
func (s *Scheduler) Len() int { return len(s.people) }

// Step invokes every registered person exactly once. The order is
// re-shuffled on every call, not fixed at insertion.
func (s *Scheduler) Step(src entropy.Source, step func(*Person)) {
	order := make([]*Person, len(s.people))
	copy(order, s.people)
	src.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	for _, p := range order {
		step(p)
	}
}
