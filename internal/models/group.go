package models

// Group represents a set of people who share expenses.
// All amounts within a group are in the group's single currency.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Currency is the ISO 4217 code for the group's currency (e.g., "EUR").
	// Informational only; no conversion or multi-currency netting happens.
	Currency string

	// Members is the list of people in this group.
	Members []GroupMember

	// CreatedBy is the user ID that created the group.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// GroupMember is one person inside a group. Members exist independently of
// user accounts so a group can include people who never registered.
type GroupMember struct {
	// ID is the unique identifier for the member (UUID format).
	// Expenses, splits, and settlements reference this ID.
	ID string

	// GroupID is the group this member belongs to.
	GroupID string

	// Name is the member's display name inside the group.
	Name string

	// UserID optionally links this member to a registered user account.
	// Empty for members without an account.
	UserID string
}
