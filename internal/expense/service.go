package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fkhayef/settleup/internal/expense/split"
	"github.com/fkhayef/settleup/internal/metrics"
	"github.com/fkhayef/settleup/internal/notification"
)

// Common errors
var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrPayerNotFound       = errors.New("payer not found")
	ErrParticipantNotFound = errors.New("participant not found")
)

// LedgerInvalidator is told when a write changes balances
type LedgerInvalidator interface {
	Invalidate(ctx context.Context)
}

// Notifier is told about every stored expense
type Notifier interface {
	NotifyExpenseAdded(ctx context.Context, event *notification.ExpenseAdded) error
}

// Service handles expense business logic
type Service struct {
	repo         *Repository
	splitFactory *split.Factory
	ledger       LedgerInvalidator
	notifier     Notifier
}

// NewService creates a new expense service with dependencies injected
func NewService(repo *Repository, splitFactory *split.Factory, ledger LedgerInvalidator, notifier Notifier) *Service {
	return &Service{
		repo:         repo,
		splitFactory: splitFactory,
		ledger:       ledger,
		notifier:     notifier,
	}
}

// CreateExpense computes the splits with the requested strategy and stores
// the expense and its splits atomically. Split rounding loss is kept: the
// payer is credited the full amount even when the portions sum to less.
func (s *Service) CreateExpense(ctx context.Context, req *CreateExpenseRequest) (*ExpenseWithSplits, error) {
	strategy, err := s.splitFactory.CreateFromString(req.SplitType)
	if err != nil {
		return nil, err
	}

	portions, err := strategy.Calculate(req.Amount, req.Splits)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	expense := &Expense{
		Description: req.Description,
		Amount:      req.Amount,
		SplitType:   strategy.Type(),
		GroupID:     req.GroupID,
		PaidByID:    req.PaidByID,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	splits := make([]*Split, len(portions))
	for i, p := range portions {
		splits[i] = &Split{
			UserID: p.UserID,
			Share:  req.Splits[i].Share,
			Amount: p.Amount,
		}
	}

	if err := s.repo.CreateWithSplits(ctx, expense, splits); err != nil {
		return nil, err
	}

	metrics.ExpensesCreated.WithLabelValues(string(expense.SplitType)).Inc()
	s.ledger.Invalidate(ctx)

	names, err := s.repo.UserNames(ctx, []int64{expense.PaidByID})
	if err == nil {
		expense.PaidByName = names[expense.PaidByID]
	}

	if err := s.notifier.NotifyExpenseAdded(ctx, newExpenseAddedEvent(expense, splits)); err != nil {
		slog.ErrorContext(ctx, "failed to notify participants", "expense_id", expense.ID, "error", err)
	}

	slog.InfoContext(ctx, "expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.Amount,
		"split_type", expense.SplitType,
		"dropped", expense.Amount-split.Sum(portions),
	)

	return &ExpenseWithSplits{Expense: expense, Splits: splits}, nil
}

// checkReferences verifies that the group, the payer and every participant exist
func (s *Service) checkReferences(ctx context.Context, req *CreateExpenseRequest) error {
	exists, err := s.repo.GroupExists(ctx, req.GroupID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrGroupNotFound
	}

	ids := make([]int64, 0, len(req.Splits)+1)
	ids = append(ids, req.PaidByID)
	for _, sh := range req.Splits {
		ids = append(ids, sh.UserID)
	}

	names, err := s.repo.UserNames(ctx, ids)
	if err != nil {
		return err
	}
	if _, ok := names[req.PaidByID]; !ok {
		return ErrPayerNotFound
	}
	for _, sh := range req.Splits {
		if _, ok := names[sh.UserID]; !ok {
			return fmt.Errorf("%w: user %d", ErrParticipantNotFound, sh.UserID)
		}
	}
	return nil
}

func newExpenseAddedEvent(e *Expense, splits []*Split) *notification.ExpenseAdded {
	shares := make([]notification.SplitShare, len(splits))
	for i, s := range splits {
		shares[i] = notification.SplitShare{UserID: s.UserID, Amount: s.Amount}
	}
	return &notification.ExpenseAdded{
		ExpenseID:   e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PaidByID,
		PayerName:   e.PaidByName,
		Description: e.Description,
		Amount:      e.Amount,
		SplitType:   string(e.SplitType),
		Splits:      shares,
		OccurredAt:  e.CreatedAt,
	}
}

// GetExpenseByID retrieves an expense with its splits
func (s *Service) GetExpenseByID(ctx context.Context, id int64) (*ExpenseWithSplits, error) {
	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	splits, err := s.repo.GetSplitsByExpenseIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	return &ExpenseWithSplits{Expense: expense, Splits: splits[id]}, nil
}

// ListExpensesByGroupID retrieves a page of a group's expenses with their splits
func (s *Service) ListExpensesByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*ExpenseWithSplits, int, error) {
	exists, err := s.repo.GroupExists(ctx, groupID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, ErrGroupNotFound
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	expenses, total, err := s.repo.ListByGroupID(ctx, groupID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
	}
	splits, err := s.repo.GetSplitsByExpenseIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*ExpenseWithSplits, len(expenses))
	for i, e := range expenses {
		out[i] = &ExpenseWithSplits{Expense: e, Splits: splits[e.ID]}
	}
	return out, total, nil
}
