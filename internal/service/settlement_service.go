package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitpot/splitpot/internal/auth"
	"github.com/splitpot/splitpot/internal/events"
	"github.com/splitpot/splitpot/internal/metrics"
	"github.com/splitpot/splitpot/internal/middleware"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// SettlementInput describes a repayment to record.
type SettlementInput struct {
	FromMemberID string
	ToMemberID   string
	Amount       float64
	Note         string
}

// SettlementService records and reads repayments between group members.
type SettlementService struct {
	store   storage.Store
	events  EventPublisher
	metrics *metrics.Metrics
}

// NewSettlementService creates a new SettlementService. publisher may be nil
// when event publishing is disabled.
func NewSettlementService(store storage.Store, publisher EventPublisher, m *metrics.Metrics) *SettlementService {
	return &SettlementService{store: store, events: publisher, metrics: m}
}

// CreateSettlement validates and records a repayment in a group.
func (s *SettlementService) CreateSettlement(ctx context.Context, groupID string, input SettlementInput) (*models.Settlement, error) {
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

	if _, err := parseAmount("amount", input.Amount, false); err != nil {
		return nil, err
	}
	if findMember(group, input.FromMemberID) == nil {
		return nil, &ErrValidation{Field: "from_member_id", Message: "payer must be a group member"}
	}
	if findMember(group, input.ToMemberID) == nil {
		return nil, &ErrValidation{Field: "to_member_id", Message: "recipient must be a group member"}
	}
	if input.FromMemberID == input.ToMemberID {
		return nil, &ErrValidation{Field: "to_member_id", Message: "payer and recipient must differ"}
	}

	settlement := &models.Settlement{
		GroupID:      group.ID,
		FromMemberID: input.FromMemberID,
		ToMemberID:   input.ToMemberID,
		Amount:       input.Amount,
		Note:         input.Note,
		CreatedBy:    userID,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("CreateSettlement failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	s.metrics.IncrSettlementRecorded()
	s.publishSettlementRecorded(ctx, settlement)

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", group.ID,
		"amount", settlement.Amount,
	)
	return settlement, nil
}

// ListSettlements retrieves a group's settlements, newest first.
func (s *SettlementService) ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
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

	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return settlements, nil
}

// DeleteSettlement removes a recorded repayment, e.g. one entered by mistake.
func (s *SettlementService) DeleteSettlement(ctx context.Context, groupID, settlementID string) error {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return auth.ErrMissingToken
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !memberOf(group, userID) {
		return errNotGroupMember()
	}

	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return err
	}
	if settlement.GroupID != groupID {
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrSettlementNotFound)
	}

	if err := s.store.DeleteSettlement(ctx, settlementID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", settlementID, "error", err)
		return fmt.Errorf("failed to delete settlement: %w", err)
	}

	slog.Info("Settlement deleted", "settlement_id", settlementID, "group_id", groupID)
	return nil
}

func (s *SettlementService) publishSettlementRecorded(ctx context.Context, settlement *models.Settlement) {
	if s.events == nil {
		slog.Debug("Event publishing disabled", "event", events.EventSettlementRecorded)
		return
	}

	err := s.events.PublishSettlementRecorded(ctx, settlement)
	s.metrics.IncrEventPublished(events.EventSettlementRecorded, err)
	if err != nil {
		slog.Error("Failed to publish event",
			"event", events.EventSettlementRecorded,
			"settlement_id", settlement.ID,
			"error", err,
		)
	}
}
