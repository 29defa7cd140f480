package expense

import (
	"time"

	"github.com/fkhayef/settleup/internal/expense/split"
)

// Expense represents an expense in the system. Amounts are minor units.
type Expense struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      int64           `json:"amount"`
	SplitType   split.SplitType `json:"split_type"`
	GroupID     int64           `json:"group_id"`
	PaidByID    int64           `json:"paid_by_id"`
	CreatedAt   time.Time       `json:"created_at"`

	// Populated via JOIN
	PaidByName string `json:"paid_by_name,omitempty"`
}

// Split is one participant's stored portion of an expense
type Split struct {
	ID        int64   `json:"id"`
	ExpenseID int64   `json:"expense_id"`
	UserID    int64   `json:"user_id"`
	Share     float64 `json:"share"`
	Amount    int64   `json:"amount"`
}

// ExpenseWithSplits combines an expense with its calculated splits
type ExpenseWithSplits struct {
	Expense *Expense
	Splits  []*Split
}
