// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitpot/splitpot/internal/models"
)

// Not-found sentinels. Implementations map their driver's missing-row
// condition to these so callers can branch with errors.Is.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrSettlementNotFound = errors.New("settlement not found")
)

// Store defines the interface for persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. The user.ID field is populated when empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a group together with its initial members.
	// Group and member IDs are populated when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its full member list.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByUser retrieves groups the user created or is linked into
	// as a member, newest first. Members are loaded for each group.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddMember appends one member to an existing group.
	AddMember(ctx context.Context, member *models.GroupMember) error

	// ListMembers retrieves a group's members in roster order.
	ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)

	// CreateExpense persists an expense and its splits atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves one expense with its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves a group's expenses with splits, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// CreateSettlement persists a settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup retrieves a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// Close releases any resources held by the store.
	Close() error
}
