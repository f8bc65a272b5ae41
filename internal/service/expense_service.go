package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/splitpot/splitpot/internal/auth"
	"github.com/splitpot/splitpot/internal/events"
	"github.com/splitpot/splitpot/internal/metrics"
	"github.com/splitpot/splitpot/internal/middleware"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// SplitInput describes one member's share of an expense.
type SplitInput struct {
	MemberID string
	Amount   float64
	Label    string
}

// ExpenseInput describes an expense to record. Exactly one split mode applies:
// Splits carries explicit per-member shares, SplitEqually divides the amount
// across the whole roster, and Items derives shares from an itemized receipt.
type ExpenseInput struct {
	PayerMemberID string
	Description   string
	Amount        float64
	SplitEqually  bool
	Splits        []SplitInput
	Items         []ItemInput
}

// ExpenseService records and reads shared expenses.
type ExpenseService struct {
	store   storage.Store
	events  EventPublisher
	metrics *metrics.Metrics
}

// NewExpenseService creates a new ExpenseService. publisher may be nil when
// event publishing is disabled.
func NewExpenseService(store storage.Store, publisher EventPublisher, m *metrics.Metrics) *ExpenseService {
	return &ExpenseService{store: store, events: publisher, metrics: m}
}

// CreateExpense validates and records an expense in a group.
func (s *ExpenseService) CreateExpense(ctx context.Context, groupID string, input ExpenseInput) (*models.Expense, error) {
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

	total, err := parseAmount("amount", input.Amount, false)
	if err != nil {
		return nil, err
	}
	if input.Description == "" {
		return nil, &ErrValidation{Field: "description", Message: "description is required"}
	}
	if findMember(group, input.PayerMemberID) == nil {
		return nil, &ErrValidation{Field: "payer_member_id", Message: "payer must be a group member"}
	}

	splits, err := s.buildSplits(group, input, total)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:       group.ID,
		PayerMemberID: input.PayerMemberID,
		Description:   input.Description,
		Amount:        input.Amount,
		Splits:        splits,
		CreatedBy:     userID,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.metrics.IncrExpenseRecorded()
	s.publishExpenseRecorded(ctx, expense)

	slog.Info("Expense recorded",
		"expense_id", expense.ID,
		"group_id", group.ID,
		"amount", expense.Amount,
		"splits_count", len(expense.Splits),
	)
	return expense, nil
}

// buildSplits turns the request input into stored splits: explicit shares
// verbatim after validation, equal division across the roster, or shares
// derived from receipt items.
func (s *ExpenseService) buildSplits(group *models.Group, input ExpenseInput, total decimal.Decimal) ([]models.ExpenseSplit, error) {
	modes := 0
	if input.SplitEqually {
		modes++
	}
	if len(input.Splits) > 0 {
		modes++
	}
	if len(input.Items) > 0 {
		modes++
	}
	if modes > 1 {
		return nil, &ErrValidation{Field: "splits", Message: "split_equally, splits, and items are mutually exclusive"}
	}

	if input.SplitEqually {
		if len(group.Members) == 0 {
			return nil, &ErrValidation{Field: "splits", Message: "group has no members to split across"}
		}

		shares := equalShares(total, len(group.Members))
		splits := make([]models.ExpenseSplit, len(group.Members))
		for i, member := range group.Members {
			splits[i] = models.ExpenseSplit{MemberID: member.ID, Amount: shares[i]}
		}
		return splits, nil
	}

	if len(input.Items) > 0 {
		return itemizedSplits(group, input.Items, total)
	}

	if len(input.Splits) == 0 {
		return nil, &ErrValidation{Field: "splits", Message: "at least one split is required"}
	}

	sum := decimal.Zero
	splits := make([]models.ExpenseSplit, len(input.Splits))
	for i, split := range input.Splits {
		share, err := parseAmount(fmt.Sprintf("splits[%d].amount", i), split.Amount, true)
		if err != nil {
			return nil, err
		}
		if findMember(group, split.MemberID) == nil {
			return nil, &ErrValidation{
				Field:   fmt.Sprintf("splits[%d].member_id", i),
				Message: "split member must be a group member",
			}
		}
		sum = sum.Add(share)
		splits[i] = models.ExpenseSplit{MemberID: split.MemberID, Amount: split.Amount, Label: split.Label}
	}
	if !sum.Equal(total) {
		return nil, &ErrValidation{
			Field:   "splits",
			Message: fmt.Sprintf("split amounts sum to %s, expense amount is %s", sum.StringFixed(2), total.StringFixed(2)),
		}
	}
	return splits, nil
}

// GetExpense retrieves one expense, scoped to the group in the request path.
func (s *ExpenseService) GetExpense(ctx context.Context, groupID, expenseID string) (*models.Expense, error) {
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

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.GroupID != groupID {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrExpenseNotFound)
	}
	return expense, nil
}

// ListExpenses retrieves a group's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
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

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

func (s *ExpenseService) publishExpenseRecorded(ctx context.Context, expense *models.Expense) {
	if s.events == nil {
		slog.Debug("Event publishing disabled", "event", events.EventExpenseRecorded)
		return
	}

	err := s.events.PublishExpenseRecorded(ctx, expense)
	s.metrics.IncrEventPublished(events.EventExpenseRecorded, err)
	if err != nil {
		slog.Error("Failed to publish event",
			"event", events.EventExpenseRecorded,
			"expense_id", expense.ID,
			"error", err,
		)
	}
}
