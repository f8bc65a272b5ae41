// Package service holds the business logic between the HTTP layer and
// storage: membership checks, write-side validation, and the calls into the
// balance calculator.
package service

import (
	"context"

	"github.com/splitpot/splitpot/internal/models"
)

// EventPublisher emits group activity events to a broker. Services treat a
// nil publisher as "events disabled".
type EventPublisher interface {
	PublishExpenseRecorded(ctx context.Context, expense *models.Expense) error
	PublishSettlementRecorded(ctx context.Context, settlement *models.Settlement) error
}

// memberOf reports whether the user created the group or is linked to one of
// its roster entries.
func memberOf(group *models.Group, userID string) bool {
	if group.CreatedBy == userID {
		return true
	}
	for _, member := range group.Members {
		if member.UserID != "" && member.UserID == userID {
			return true
		}
	}
	return false
}

// findMember returns the roster entry with the given ID, or nil.
func findMember(group *models.Group, memberID string) *models.GroupMember {
	for i := range group.Members {
		if group.Members[i].ID == memberID {
			return &group.Members[i]
		}
	}
	return nil
}
