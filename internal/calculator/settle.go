package calculator

import (
	"fmt"
	"sort"
)

// TransactionSuggestion is one suggested repayment: the debtor pays the
// creditor the stated amount.
type TransactionSuggestion struct {
	FromMemberID string // Who owes
	FromName     string
	ToMemberID   string // Who is owed
	ToName       string
	Amount       float64
}

// CalculateMinimumTransactions computes a reduced settlement plan: applying
// every suggestion (debtor pays creditor) as a new settlement brings all
// balances within a cent of zero.
//
// Algorithm (greedy largest-to-largest matching):
// - Compute balances, then partition members into debtors and creditors,
//   treating anyone within 0.01 of zero as already settled.
// - Sort both lists descending by amount; ties keep input order.
// - Walk both lists with one cursor each, always matching the current largest
//   debtor against the current largest creditor for min(remaining) and
//   advancing whichever side drops below a cent.
//
// The greedy plan is a practical approximation, not the combinatorial minimum:
// it runs in O(n log n) and emits at most n-1 suggestions for n non-settled
// members.
func CalculateMinimumTransactions(members []Member, expenses []Expense, settlements []Settlement) ([]TransactionSuggestion, error) {
	entries, err := CalculateBalances(members, expenses, settlements)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate balances: %w", err)
	}

	type party struct {
		id        string
		name      string
		remaining float64
	}

	var debtors []party
	var creditors []party
	for _, e := range entries {
		switch {
		case e.Balance > 0.01:
			creditors = append(creditors, party{id: e.MemberID, name: e.MemberName, remaining: e.Balance})
		case e.Balance < -0.01:
			debtors = append(debtors, party{id: e.MemberID, name: e.MemberName, remaining: -e.Balance})
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].remaining > debtors[j].remaining
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].remaining > creditors[j].remaining
	})

	var suggestions []TransactionSuggestion
	i, j := 0, 0

	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		// Settle the minimum of what the debtor owes and the creditor is owed.
		amount := debtor.remaining
		if creditor.remaining < amount {
			amount = creditor.remaining
		}

		if amount > 0.01 { // Avoid floating point noise
			suggestions = append(suggestions, TransactionSuggestion{
				FromMemberID: debtor.id,
				FromName:     debtor.name,
				ToMemberID:   creditor.id,
				ToName:       creditor.name,
				Amount:       roundToCent(amount),
			})
		}

		debtor.remaining -= amount
		creditor.remaining -= amount

		// Move on once a side is within a cent of settled. Both may advance
		// when the amounts matched exactly.
		if debtor.remaining < 0.01 {
			i++
		}
		if creditor.remaining < 0.01 {
			j++
		}
	}

	return suggestions, nil
}
