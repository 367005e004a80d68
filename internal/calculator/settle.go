package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultEpsilon is the remainder below which a debtor or creditor counts as settled.
var DefaultEpsilon = decimal.New(1, -2)

// MemberBalance represents the balance information for one participant.
type MemberBalance struct {
	Name string
	Paid decimal.Decimal // Total amount paid, including recorded payments
	Owed decimal.Decimal // Total of shares debited, including payments received
	Net  decimal.Decimal // Positive = owed money, Negative = owes money
}

// Transfer is one instruction: From pays To the Amount.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// Warning is a recoverable data-integrity problem found while settling.
// The computation still completes; the caller decides whether to surface it.
type Warning struct {
	ExpenseID string // empty for payments
	Name      string
	Err       error
}

func (w Warning) Error() string {
	if w.ExpenseID == "" {
		return fmt.Sprintf("payment: %v: %q", w.Err, w.Name)
	}
	return fmt.Sprintf("expense %s: %v: %q", w.ExpenseID, w.Err, w.Name)
}

func (w Warning) Unwrap() error { return w.Err }

// Settlement is the result of ComputeSettlement.
type Settlement struct {
	Balances       map[string]decimal.Decimal
	MemberBalances []MemberBalance // participant order
	Transfers      []Transfer
	Warnings       []Warning
	TotalExpenses  decimal.Decimal
}

type options struct {
	epsilon  decimal.Decimal
	policy   SplitPolicy
	payments []Payment
}

// Option configures ComputeSettlement.
type Option func(*options)

// WithEpsilon overrides DefaultEpsilon. Non-positive values are ignored.
func WithEpsilon(eps decimal.Decimal) Option {
	return func(o *options) {
		if eps.IsPositive() {
			o.epsilon = eps
		}
	}
}

// WithPolicy selects how shares are debited.
func WithPolicy(p SplitPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithPayments applies transfers already marked paid before settling.
func WithPayments(payments []Payment) Option {
	return func(o *options) { o.payments = payments }
}

type entry struct {
	name   string
	amount decimal.Decimal
}

// ComputeSettlement computes per-participant balances and the transfers that zero them.
//
// Algorithm:
//   - For each expense: payer is credited the full amount, each sharer is debited amount/split_between
//   - For each payment: payer's balance improves, receiver's balance decreases
//   - Debtors and creditors are sorted ascending by amount (stable, so ties keep participant order)
//   - The smallest debtor pays the smallest creditor min(debt, credit) until either list drains;
//     entries leave their list once the remainder drops below epsilon
//
// The function is pure: same input, same output, no shared state.
func ComputeSettlement(participants []string, expenses []Expense, opts ...Option) (*Settlement, error) {
	cfg := options{epsilon: DefaultEpsilon, policy: SplitAcrossAll}
	for _, opt := range opts {
		opt(&cfg)
	}

	result := &Settlement{
		Balances:      make(map[string]decimal.Decimal, len(participants)),
		Transfers:     []Transfer{},
		TotalExpenses: decimal.Zero,
	}
	if len(participants) == 0 {
		return result, nil
	}

	index := make(map[string]int, len(participants))
	members := make([]MemberBalance, len(participants))
	for i, name := range participants {
		if _, exists := index[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, name)
		}
		index[name] = i
		members[i] = MemberBalance{Name: name, Paid: decimal.Zero, Owed: decimal.Zero}
	}

	for _, e := range expenses {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		result.TotalExpenses = result.TotalExpenses.Add(e.Amount)

		if i, ok := index[e.PaidBy]; ok {
			members[i].Paid = members[i].Paid.Add(e.Amount)
		} else {
			result.Warnings = append(result.Warnings, Warning{ExpenseID: e.ID, Name: e.PaidBy, Err: ErrUnknownPayer})
		}

		share := e.Share()
		for i := 0; i < cfg.policy.sharers(len(members), e.SplitBetween); i++ {
			members[i].Owed = members[i].Owed.Add(share)
		}
	}

	for _, p := range cfg.payments {
		if !p.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be greater than zero, got %s", ErrInvalidPayment, p.Amount)
		}
		if i, ok := index[p.From]; ok {
			members[i].Paid = members[i].Paid.Add(p.Amount)
		} else {
			result.Warnings = append(result.Warnings, Warning{Name: p.From, Err: ErrUnknownPayer})
		}
		if i, ok := index[p.To]; ok {
			members[i].Owed = members[i].Owed.Add(p.Amount)
		} else {
			result.Warnings = append(result.Warnings, Warning{Name: p.To, Err: ErrUnknownPayer})
		}
	}

	var debtors, creditors []entry
	for i := range members {
		m := &members[i]
		m.Net = m.Paid.Sub(m.Owed)
		result.Balances[m.Name] = m.Net

		if m.Net.IsNegative() {
			debtors = append(debtors, entry{name: m.Name, amount: m.Net.Neg()})
		} else if m.Net.IsPositive() {
			creditors = append(creditors, entry{name: m.Name, amount: m.Net})
		}
	}
	result.MemberBalances = members

	byAmount := func(list []entry) func(a, b int) bool {
		return func(a, b int) bool { return list[a].amount.LessThan(list[b].amount) }
	}
	sort.SliceStable(debtors, byAmount(debtors))
	sort.SliceStable(creditors, byAmount(creditors))

	for len(debtors) > 0 && len(creditors) > 0 {
		debtor, creditor := &debtors[0], &creditors[0]
		amount := decimal.Min(debtor.amount, creditor.amount)

		result.Transfers = append(result.Transfers, Transfer{From: debtor.name, To: creditor.name, Amount: amount})

		debtor.amount = debtor.amount.Sub(amount)
		creditor.amount = creditor.amount.Sub(amount)

		if debtor.amount.LessThan(cfg.epsilon) {
			debtors = debtors[1:]
		}
		if creditor.amount.LessThan(cfg.epsilon) {
			creditors = creditors[1:]
		}
	}

	return result, nil
}

// ApplyTransfers returns a copy of balances with every transfer applied:
// the sender's balance rises by the amount and the receiver's falls by it.
func ApplyTransfers(balances map[string]decimal.Decimal, transfers []Transfer) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(balances))
	for name, b := range balances {
		out[name] = b
	}
	for _, t := range transfers {
		out[t.From] = out[t.From].Add(t.Amount)
		out[t.To] = out[t.To].Sub(t.Amount)
	}
	return out
}
