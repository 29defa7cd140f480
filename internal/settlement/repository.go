package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/settleup/internal/database"
	"github.com/fkhayef/settleup/internal/settlement/ledger"
)

// Repository loads ledgers from storage
type Repository struct {
	db *database.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

const ledgerQuery = `
	SELECT e.id, e.amount, e.paid_by_id, s.user_id, s.amount
	FROM expenses e
	LEFT JOIN expense_splits s ON s.expense_id = e.id
`

// GroupLedger retrieves every expense of a group with its split portions
func (r *Repository) GroupLedger(ctx context.Context, groupID int64) ([]ledger.Expense, error) {
	return r.loadLedger(ctx, ledgerQuery+` WHERE e.group_id = $1 ORDER BY e.id, s.id`, groupID)
}

// SystemLedger retrieves every expense in the system with its split portions
func (r *Repository) SystemLedger(ctx context.Context) ([]ledger.Expense, error) {
	return r.loadLedger(ctx, ledgerQuery+` ORDER BY e.id, s.id`)
}

func (r *Repository) loadLedger(ctx context.Context, query string, args ...any) ([]ledger.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	defer rows.Close()

	var (
		expenses []ledger.Expense
		lastID   int64
	)
	for rows.Next() {
		var (
			id, amount, paidBy int64
			userID, share      sql.NullInt64
		)
		if err := rows.Scan(&id, &amount, &paidBy, &userID, &share); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}

		if len(expenses) == 0 || id != lastID {
			expenses = append(expenses, ledger.Expense{Amount: amount, PaidByID: paidBy})
			lastID = id
		}
		if userID.Valid {
			e := &expenses[len(expenses)-1]
			e.Splits = append(e.Splits, ledger.Portion{UserID: userID.Int64, Amount: share.Int64})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger: %w", err)
	}

	return expenses, nil
}

// UserGroupIDs retrieves the ids of the groups a user belongs to
func (r *Repository) UserGroupIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT group_id FROM group_members WHERE user_id = $1 ORDER BY group_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user groups: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user groups: %w", err)
	}
	return ids, nil
}

// GroupExists checks whether a group exists
func (r *Repository) GroupExists(ctx context.Context, groupID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`, groupID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check group: %w", err)
	}
	return exists, nil
}

// UserExists checks whether a user exists
func (r *Repository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}
