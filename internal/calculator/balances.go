package calculator

import (
	"fmt"
	"math"
)

// Member identifies one group member for balance purposes.
type Member struct {
	ID   string
	Name string
}

// Split is one member's share of an expense.
type Split struct {
	MemberID string
	Amount   float64
	Label    string // Optional item label, no effect on balance math
}

// Expense carries the minimal expense information needed for balance calculations.
type Expense struct {
	PayerID string
	Amount  float64
	Splits  []Split
}

// Settlement is a repayment already made between two members.
type Settlement struct {
	FromMemberID string // Who paid (debtor settling up)
	ToMemberID   string // Who received (creditor being paid)
	Amount       float64
}

// BalanceEntry is the derived balance for one group member.
type BalanceEntry struct {
	MemberID   string
	MemberName string
	Balance    float64 // Positive = owed money, Negative = owes money
	TotalPaid  float64 // Sum of expense totals this member fronted
	TotalShare float64 // Sum of this member's split amounts across all expenses
}

// CalculateBalances reduces a group's expenses and settlements into one signed
// net balance per member. The result has exactly one entry per input member,
// in input order, with the display name captured at call time.
//
// Algorithm:
// - For each expense: payer gains +total, each split member loses their share.
//   A payer who also appears in the splits nets to total paid minus own share.
// - For each settlement: the paying member gains +amount, the receiving member
//   loses it, mirroring how an expense reduces debt.
// - Final balances are rounded to cents (half away from zero on the cent value)
//   to eliminate binary floating-point drift.
//
// Expenses or settlements referencing a member id missing from members are
// still tallied internally but never emitted, since output is driven by the
// member list. Callers supplying inconsistent data therefore see money leave
// the visible sheet; validation is their job, not this package's.
//
// Any NaN or infinite amount returns an error with no result.
func CalculateBalances(members []Member, expenses []Expense, settlements []Settlement) ([]BalanceEntry, error) {
	balances := make(map[string]float64, len(members))
	totalPaid := make(map[string]float64, len(members))
	totalShare := make(map[string]float64, len(members))

	// Every input member appears in the output, even with no activity.
	for _, m := range members {
		balances[m.ID] = 0
	}

	for _, e := range expenses {
		if !isFinite(e.Amount) {
			return nil, fmt.Errorf("expense amount is not finite: %v", e.Amount)
		}

		balances[e.PayerID] += e.Amount
		totalPaid[e.PayerID] += e.Amount

		for _, s := range e.Splits {
			if !isFinite(s.Amount) {
				return nil, fmt.Errorf("split amount is not finite: %v", s.Amount)
			}
			balances[s.MemberID] -= s.Amount
			totalShare[s.MemberID] += s.Amount
		}
	}

	for _, s := range settlements {
		if !isFinite(s.Amount) {
			return nil, fmt.Errorf("settlement amount is not finite: %v", s.Amount)
		}
		balances[s.FromMemberID] += s.Amount
		balances[s.ToMemberID] -= s.Amount
	}

	entries := make([]BalanceEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, BalanceEntry{
			MemberID:   m.ID,
			MemberName: m.Name,
			Balance:    roundToCent(balances[m.ID]),
			TotalPaid:  roundToCent(totalPaid[m.ID]),
			TotalShare: roundToCent(totalShare[m.ID]),
		})
	}
	return entries, nil
}

// roundToCent rounds to 2 decimal places on the cent value.
func roundToCent(v float64) float64 {
	return math.Round(v*100) / 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
