// The single bank: sole owner of aggregate deposit and loan totals.
// Person balances mirror these totals and are validated against them in
// tests; every settlement goes through exactly one bank operation.

package sim

// Bank holds the aggregate deposit, reserve, and loan state for the model.
type Bank struct {
	// ReservePercent is the configured fraction (0–100) of deposits kept
	// back from lending.
	ReservePercent int

	// Strict caps loan grants at lendable capacity. When false (the
	// reference behavior) the reserve ratio is reporting-only and every
	// request is granted in full.
	Strict bool

	deposits int64
	loans    int64
}

// NewBank creates the model's bank.
func NewBank(reservePercent int, strict bool) *Bank {
	return &Bank{ReservePercent: reservePercent, Strict: strict}
}

// Deposits returns the sum of all persons' savings held at the bank.
func (b *Bank) Deposits() int64 { return b.deposits }

// Loans returns the total outstanding loan balance.
func (b *Bank) Loans() int64 { return b.loans }

// Reserves returns the portion of deposits held back from lending.
func (b *Bank) Reserves() int64 {
	return b.deposits * int64(b.ReservePercent) / 100
}

// Lendable returns the remaining lending capacity. Negative values are
// possible in non-strict mode; existing loans are never called.
func (b *Bank) Lendable() int64 {
	return b.deposits - b.Reserves() - b.loans
}

// Deposit adds amount to total deposits. Amounts are non-negative by
// construction of the settlement rule.
func (b *Bank) Deposit(amount int64) {
	b.deposits += amount
}

// Withdraw removes amount from total deposits. The caller guarantees the
// paying person's savings cover it.
func (b *Bank) Withdraw(amount int64) {
	b.deposits -= amount
}

// RequestLoan asks for a new loan and returns the granted amount. In strict
// mode the grant is capped at max(0, Lendable); otherwise it is the full
// request.
func (b *Bank) RequestLoan(amount int64) int64 {
	granted := amount
	if b.Strict {
		capacity := b.Lendable()
		if capacity < 0 {
			capacity = 0
		}
		if granted > capacity {
			granted = capacity
		}
	}
	b.loans += granted
	return granted
}
