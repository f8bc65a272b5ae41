package events

import (
	"testing"

	"github.com/splitpot/splitpot/internal/models"
)

func TestNewExpenseRecordedMessage(t *testing.T) {
	expense := &models.Expense{ID: "exp-1", GroupID: "grp-1", Amount: 42.50}

	msg := NewExpenseRecordedMessage(expense)

	if msg.Event != EventExpenseRecorded {
		t.Errorf("event = %s, want %s", msg.Event, EventExpenseRecorded)
	}
	if msg.ExpenseID != "exp-1" || msg.GroupID != "grp-1" || msg.Amount != 42.50 {
		t.Errorf("message = %+v", msg)
	}
	if msg.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	decoded, err := ExpenseRecordedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if decoded.ExpenseID != "exp-1" {
		t.Errorf("decoded expense ID = %s, want exp-1", decoded.ExpenseID)
	}
}

func TestNewSettlementRecordedMessage(t *testing.T) {
	settlement := &models.Settlement{
		ID: "set-1", GroupID: "grp-1",
		FromMemberID: "m-bob", ToMemberID: "m-alice", Amount: 12.25,
	}

	msg := NewSettlementRecordedMessage(settlement)

	if msg.Event != EventSettlementRecorded {
		t.Errorf("event = %s, want %s", msg.Event, EventSettlementRecorded)
	}
	if msg.FromMemberID != "m-bob" || msg.ToMemberID != "m-alice" {
		t.Errorf("message = %+v", msg)
	}
}

func TestMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := ExpenseRecordedMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
	if _, err := SettlementRecordedMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
