package models

// Expense represents money fronted by one group member on behalf of others.
// The payer is owed the total; each split member owes their share.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PayerMemberID is the group member who fronted the money.
	PayerMemberID string

	// Description is a human-readable label (e.g., "Groceries", "Dinner").
	Description string

	// Amount is the full expense amount the payer fronted.
	Amount float64

	// Splits divides the amount across members. Non-empty; validated on
	// write so the split amounts sum exactly to Amount.
	Splits []ExpenseSplit

	// CreatedBy is the user ID that recorded this expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseSplit is one member's share of an expense.
type ExpenseSplit struct {
	// MemberID is the group member who owes this share.
	MemberID string

	// Amount is the share owed by this member (non-negative).
	Amount float64

	// Label optionally names what the share covers (e.g., "Beer").
	// It has no effect on balance math.
	Label string
}
