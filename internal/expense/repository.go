package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fkhayef/settleup/internal/database"
	"github.com/fkhayef/settleup/internal/expense/split"
)

// Repository handles expense and split data persistence
type Repository struct {
	db *database.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithSplits stores an expense and its splits in one transaction and
// fills in the generated ids. Either everything is written or nothing is.
func (r *Repository) CreateWithSplits(ctx context.Context, expense *Expense, splits []*Split) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		query := `
			INSERT INTO expenses (description, amount, split_type, created_at, group_id, paid_by_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, query,
			expense.Description,
			expense.Amount,
			string(expense.SplitType),
			expense.CreatedAt,
			expense.GroupID,
			expense.PaidByID,
		).Scan(&expense.ID)
		if err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}

		splitQuery := `
			INSERT INTO expense_splits (expense_id, user_id, share, amount)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		for _, s := range splits {
			s.ExpenseID = expense.ID
			if err := tx.QueryRowContext(ctx, splitQuery, s.ExpenseID, s.UserID, s.Share, s.Amount).Scan(&s.ID); err != nil {
				return fmt.Errorf("failed to create split: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves an expense with its payer's name
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.description, e.amount, e.split_type, e.group_id, e.paid_by_id, e.created_at, u.name
		FROM expenses e
		JOIN users u ON u.id = e.paid_by_id
		WHERE e.id = $1
	`

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// ListByGroupID retrieves a group's expenses, oldest first
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE group_id = $1`, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.description, e.amount, e.split_type, e.group_id, e.paid_by_id, e.created_at, u.name
		FROM expenses e
		JOIN users u ON u.id = e.paid_by_id
		WHERE e.group_id = $1
		ORDER BY e.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, total, nil
}

// GetSplitsByExpenseIDs retrieves the splits of several expenses keyed by
// expense id, each list in insertion order
func (r *Repository) GetSplitsByExpenseIDs(ctx context.Context, expenseIDs []int64) (map[int64][]*Split, error) {
	out := make(map[int64][]*Split, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return out, nil
	}

	in, args := inList(expenseIDs)
	query := `
		SELECT id, expense_id, user_id, share, amount
		FROM expense_splits
		WHERE expense_id IN (` + in + `)
		ORDER BY expense_id, id
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s := &Split{}
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.UserID, &s.Share, &s.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		out[s.ExpenseID] = append(out[s.ExpenseID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return out, nil
}

// GroupExists reports whether a group with the given id exists
func (r *Repository) GroupExists(ctx context.Context, groupID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`, groupID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check group: %w", err)
	}
	return exists, nil
}

// UserNames returns the names of the given users that exist, keyed by id
func (r *Repository) UserNames(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}

	in, args := inList(userIDs)
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM users WHERE id IN (`+in+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to look up users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return names, nil
}

// inList builds "$1, $2, ..." and the matching arguments for an IN clause
func inList(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*Expense, error) {
	e := &Expense{}
	var splitType string
	err := row.Scan(
		&e.ID,
		&e.Description,
		&e.Amount,
		&splitType,
		&e.GroupID,
		&e.PaidByID,
		&e.CreatedAt,
		&e.PaidByName,
	)
	e.SplitType = split.SplitType(splitType)
	return e, err
}
