package notification

import (
	"encoding/json"
	"time"
)

// Notification represents a notification in the system
type Notification struct {
	ID                int64     `json:"id"`
	RecipientID       int64     `json:"recipient_id"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"is_read"`
	RelatedEntityType *string   `json:"related_entity_type,omitempty"`
	RelatedEntityID   *int64    `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeExpenseAdded NotificationType = "EXPENSE_ADDED"
)

// EntityExpense is the related_entity_type of expense notifications
const EntityExpense = "EXPENSE"

// ExpenseAdded is the event raised after an expense and its splits are stored
type ExpenseAdded struct {
	ExpenseID   int64        `json:"expense_id"`
	GroupID     int64        `json:"group_id"`
	PayerID     int64        `json:"payer_id"`
	PayerName   string       `json:"payer_name"`
	Description string       `json:"description"`
	Amount      int64        `json:"amount"`
	SplitType   string       `json:"split_type"`
	Splits      []SplitShare `json:"splits"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

// SplitShare is one participant's owed amount in an ExpenseAdded event
type SplitShare struct {
	UserID int64 `json:"user_id"`
	Amount int64 `json:"amount"`
}

// Type returns the event type carried in broker messages
func (e *ExpenseAdded) Type() NotificationType {
	return NotificationTypeExpenseAdded
}

// ToJSON converts the event to JSON bytes
func (e *ExpenseAdded) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseAddedFromJSON decodes an event published by ToJSON
func ExpenseAddedFromJSON(data []byte) (*ExpenseAdded, error) {
	var e ExpenseAdded
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Recipients returns the participants to notify: everyone except the payer
// whose split is positive, in split order
func (e *ExpenseAdded) Recipients() []SplitShare {
	var out []SplitShare
	for _, s := range e.Splits {
		if s.UserID != e.PayerID && s.Amount > 0 {
			out = append(out, s)
		}
	}
	return out
}
