package events

import (
	"encoding/json"
	"time"
)

// TransactionCreatedMessage notifies downstream consumers that a
// transaction was recorded. It carries identifiers only; consumers
// fetch the full record themselves.
type TransactionCreatedMessage struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Type          string    `json:"type"`
	AICategorized bool      `json:"ai_categorized"`
	Timestamp     time.Time `json:"timestamp"`
}

// BudgetChangedMessage notifies that a budget was set or deleted for a
// period.
type BudgetChangedMessage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Deleted   bool      `json:"deleted"`
	Timestamp time.Time `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *TransactionCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ToJSON converts the message to JSON bytes
func (m *BudgetChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
