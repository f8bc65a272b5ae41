package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/splitpot/splitpot/internal/auth"
	"github.com/splitpot/splitpot/internal/calculator"
	"github.com/splitpot/splitpot/internal/metrics"
	"github.com/splitpot/splitpot/internal/middleware"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// MemberInput describes one roster entry to create. UserID optionally links
// the entry to a registered account.
type MemberInput struct {
	Name   string
	UserID string
}

// GroupService manages groups, their rosters, and the derived balance views.
type GroupService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, m *metrics.Metrics) *GroupService {
	return &GroupService{store: store, metrics: m}
}

// CreateGroup creates a new group with its initial member roster.
func (s *GroupService) CreateGroup(ctx context.Context, name, currency string, members []MemberInput) (*models.Group, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, auth.ErrMissingToken
	}

	slog.Info("CreateGroup request", "name", name, "members_count", len(members))

	if name == "" {
		return nil, &ErrValidation{Field: "name", Message: "group name is required"}
	}
	if currency == "" {
		currency = "EUR"
	}

	group := &models.Group{
		Name:      name,
		Currency:  currency,
		CreatedBy: userID,
	}
	for i, member := range members {
		if member.Name == "" {
			return nil, &ErrValidation{Field: fmt.Sprintf("members[%d].name", i), Message: "member name is required"}
		}
		if err := s.checkUserLink(ctx, member.UserID); err != nil {
			return nil, err
		}
		group.Members = append(group.Members, models.GroupMember{Name: member.Name, UserID: member.UserID})
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return group, nil
}

// GetGroup retrieves a group with its member roster.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, auth.ErrMissingToken
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !memberOf(group, userID) {
		return nil, errNotGroupMember()
	}
	return group, nil
}

// ListGroups retrieves the groups the caller created or belongs to.
func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, auth.ErrMissingToken
	}

	groups, err := s.store.ListGroupsByUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// AddMember appends a member to the group roster.
func (s *GroupService) AddMember(ctx context.Context, groupID string, input MemberInput) (*models.GroupMember, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, &ErrValidation{Field: "name", Message: "member name is required"}
	}
	if err := s.checkUserLink(ctx, input.UserID); err != nil {
		return nil, err
	}

	member := &models.GroupMember{
		GroupID: group.ID,
		Name:    input.Name,
		UserID:  input.UserID,
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	slog.Info("Member added", "group_id", groupID, "member_id", member.ID, "name", member.Name)
	return member, nil
}

// checkUserLink verifies that a member's linked account exists. Empty IDs
// are fine, the roster entry just has no account.
func (s *GroupService) checkUserLink(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return &ErrValidation{Field: "user_id", Message: fmt.Sprintf("no account with id %s", userID)}
		}
		return fmt.Errorf("failed to verify linked account: %w", err)
	}
	return nil
}

// Balances returns the net position of every roster member, derived from the
// group's full expense and settlement history.
func (s *GroupService) Balances(ctx context.Context, groupID string) ([]calculator.BalanceEntry, error) {
	group, expenses, settlements, err := s.loadLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}

	entries, err := calculator.CalculateBalances(
		toCalculatorMembers(group.Members),
		toCalculatorExpenses(expenses),
		toCalculatorSettlements(settlements),
	)
	if err != nil {
		slog.Error("Balance calculation failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("failed to calculate balances: %w", err)
	}

	slog.Info("Balances calculated",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"settlements_count", len(settlements),
	)
	return entries, nil
}

// SettleUp returns a minimal set of transactions that would clear all debts
// in the group.
func (s *GroupService) SettleUp(ctx context.Context, groupID string) ([]calculator.TransactionSuggestion, error) {
	group, expenses, settlements, err := s.loadLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}

	suggestions, err := calculator.CalculateMinimumTransactions(
		toCalculatorMembers(group.Members),
		toCalculatorExpenses(expenses),
		toCalculatorSettlements(settlements),
	)
	if err != nil {
		slog.Error("Settle-up calculation failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("failed to calculate settle-up plan: %w", err)
	}

	s.metrics.ObserveSettleUpSize(len(suggestions))
	slog.Info("Settle-up plan calculated", "group_id", groupID, "transactions", len(suggestions))
	return suggestions, nil
}

// loadLedger fetches the group plus its expenses and settlements, the two
// lists concurrently.
func (s *GroupService) loadLedger(ctx context.Context, groupID string) (*models.Group, []*models.Expense, []*models.Settlement, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		expenses    []*models.Expense
		settlements []*models.Settlement
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpensesByGroup(gCtx, groupID)
		if err != nil {
			return fmt.Errorf("failed to list expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		settlements, err = s.store.ListSettlementsByGroup(gCtx, groupID)
		if err != nil {
			return fmt.Errorf("failed to list settlements: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.Error("Ledger load failed", "group_id", groupID, "error", err)
		return nil, nil, nil, err
	}

	return group, expenses, settlements, nil
}

func toCalculatorMembers(members []models.GroupMember) []calculator.Member {
	out := make([]calculator.Member, len(members))
	for i, member := range members {
		out[i] = calculator.Member{ID: member.ID, Name: member.Name}
	}
	return out
}

func toCalculatorExpenses(expenses []*models.Expense) []calculator.Expense {
	out := make([]calculator.Expense, len(expenses))
	for i, expense := range expenses {
		splits := make([]calculator.Split, len(expense.Splits))
		for j, split := range expense.Splits {
			splits[j] = calculator.Split{
				MemberID: split.MemberID,
				Amount:   split.Amount,
				Label:    split.Label,
			}
		}
		out[i] = calculator.Expense{
			PayerID: expense.PayerMemberID,
			Amount:  expense.Amount,
			Splits:  splits,
		}
	}
	return out
}

func toCalculatorSettlements(settlements []*models.Settlement) []calculator.Settlement {
	out := make([]calculator.Settlement, len(settlements))
	for i, settlement := range settlements {
		out[i] = calculator.Settlement{
			FromMemberID: settlement.FromMemberID,
			ToMemberID:   settlement.ToMemberID,
			Amount:       settlement.Amount,
		}
	}
	return out
}
