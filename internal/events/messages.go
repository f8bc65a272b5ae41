package events

import (
	"encoding/json"
	"time"

	"github.com/splitpot/splitpot/internal/models"
)

// Event names double as AMQP routing keys.
const (
	EventExpenseRecorded    = "expense.recorded"
	EventSettlementRecorded = "settlement.recorded"
)

// ExpenseRecordedMessage is a lightweight notification that an expense was
// recorded. Consumers fetch the full expense from the API if they need it.
type ExpenseRecordedMessage struct {
	Event     string    `json:"event"`
	ExpenseID string    `json:"expense_id"`
	GroupID   string    `json:"group_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseRecordedMessage builds a message from a stored expense.
func NewExpenseRecordedMessage(expense *models.Expense) *ExpenseRecordedMessage {
	return &ExpenseRecordedMessage{
		Event:     EventExpenseRecorded,
		ExpenseID: expense.ID,
		GroupID:   expense.GroupID,
		Amount:    expense.Amount,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseRecordedMessageFromJSON creates a message from JSON bytes
func ExpenseRecordedMessageFromJSON(data []byte) (*ExpenseRecordedMessage, error) {
	var msg ExpenseRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SettlementRecordedMessage is a lightweight notification that a repayment
// was recorded between two group members.
type SettlementRecordedMessage struct {
	Event        string    `json:"event"`
	SettlementID string    `json:"settlement_id"`
	GroupID      string    `json:"group_id"`
	FromMemberID string    `json:"from_member_id"`
	ToMemberID   string    `json:"to_member_id"`
	Amount       float64   `json:"amount"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewSettlementRecordedMessage builds a message from a stored settlement.
func NewSettlementRecordedMessage(settlement *models.Settlement) *SettlementRecordedMessage {
	return &SettlementRecordedMessage{
		Event:        EventSettlementRecorded,
		SettlementID: settlement.ID,
		GroupID:      settlement.GroupID,
		FromMemberID: settlement.FromMemberID,
		ToMemberID:   settlement.ToMemberID,
		Amount:       settlement.Amount,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SettlementRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SettlementRecordedMessageFromJSON creates a message from JSON bytes
func SettlementRecordedMessageFromJSON(data []byte) (*SettlementRecordedMessage, error) {
	var msg SettlementRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
