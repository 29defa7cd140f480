package expense

import (
	"errors"
	"strings"

	"github.com/fkhayef/settleup/internal/expense/split"
	"github.com/fkhayef/settleup/pkg/money"
)

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	GroupID     int64         `json:"group_id"`
	Description string        `json:"description"`
	Amount      int64         `json:"amount"`
	PaidByID    int64         `json:"paid_by_id"`
	SplitType   string        `json:"split_type"`
	Splits      []split.Share `json:"splits"`
}

// Validate trims the request and checks the fields the split calculator does not
func (r *CreateExpenseRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	r.SplitType = strings.ToLower(strings.TrimSpace(r.SplitType))

	if r.Description == "" {
		return errors.New("description is required")
	}
	if len(r.Description) > 255 {
		return errors.New("description must be at most 255 characters")
	}
	if r.GroupID <= 0 {
		return errors.New("group_id is required")
	}
	if r.PaidByID <= 0 {
		return errors.New("paid_by_id is required")
	}
	return nil
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID            int64            `json:"id"`
	Description   string           `json:"description"`
	Amount        int64            `json:"amount"`
	AmountDisplay string           `json:"amount_display"`
	SplitType     string           `json:"split_type"`
	GroupID       int64            `json:"group_id"`
	PaidByID      int64            `json:"paid_by_id"`
	PaidByName    string           `json:"paid_by_name,omitempty"`
	CreatedAt     string           `json:"created_at"`
	Splits        []*SplitResponse `json:"splits"`
}

// SplitResponse represents the response for a split
type SplitResponse struct {
	ID     int64   `json:"id"`
	UserID int64   `json:"user_id"`
	Share  float64 `json:"share"`
	Amount int64   `json:"amount"`
}

// ToResponse converts an expense and its splits to an ExpenseResponse DTO
func (e *ExpenseWithSplits) ToResponse() *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:            e.Expense.ID,
		Description:   e.Expense.Description,
		Amount:        e.Expense.Amount,
		AmountDisplay: money.Format(e.Expense.Amount),
		SplitType:     string(e.Expense.SplitType),
		GroupID:       e.Expense.GroupID,
		PaidByID:      e.Expense.PaidByID,
		PaidByName:    e.Expense.PaidByName,
		CreatedAt:     e.Expense.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Splits:        make([]*SplitResponse, len(e.Splits)),
	}
	for i, s := range e.Splits {
		resp.Splits[i] = s.ToResponse()
	}
	return resp
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:     s.ID,
		UserID: s.UserID,
		Share:  s.Share,
		Amount: s.Amount,
	}
}
