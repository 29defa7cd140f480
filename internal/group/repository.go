package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fkhayef/settleup/internal/database"
)

// Repository handles group data persistence
type Repository struct {
	db *database.DB
}

// NewRepository creates a new group repository with database dependency injected
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a group and the memberships of every listed user that
// exists. Unknown user ids are skipped.
func (r *Repository) Create(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	group := &Group{
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		query := `
			INSERT INTO groups (name, description, created_at)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, group.Name, group.Description, group.CreatedAt).Scan(&group.ID); err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}

		for _, userID := range req.MemberIDs {
			if err := addMember(ctx, tx, group.ID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// addMember inserts a membership when the user exists and is not already a member
func addMember(ctx context.Context, tx *database.Tx, groupID, userID int64) error {
	query := `
		INSERT INTO group_members (user_id, group_id)
		SELECT id, $2 FROM users WHERE id = $1
		ON CONFLICT (user_id, group_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, query, userID, groupID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT id, name, description, created_at
		FROM groups
		WHERE id = $1
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// List retrieves groups ordered by id with pagination
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Group, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT id, name, description, created_at
		FROM groups
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []*Group{}
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, total, nil
}

// Delete removes a group, its memberships, its expenses and their splits.
// It reports whether the group existed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		steps := []string{
			`DELETE FROM expense_splits WHERE expense_id IN (SELECT id FROM expenses WHERE group_id = $1)`,
			`DELETE FROM expenses WHERE group_id = $1`,
			`DELETE FROM group_members WHERE group_id = $1`,
		}
		for _, query := range steps {
			if _, err := tx.ExecContext(ctx, query, id); err != nil {
				return fmt.Errorf("failed to delete group contents: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		found = rowsAffected > 0
		return nil
	})
	return found, err
}

// AddMember adds an existing user to a group; adding a member twice is a no-op
func (r *Repository) AddMember(ctx context.Context, groupID, userID int64) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		return addMember(ctx, tx, groupID, userID)
	})
}

// GetMembers retrieves all members of a group ordered by user id
func (r *Repository) GetMembers(ctx context.Context, groupID int64) ([]*Member, error) {
	query := `
		SELECT u.id, u.name, u.email
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY u.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := []*Member{}
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// IsMember reports whether the user belongs to the group
func (r *Repository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// RemoveMember removes a user from a group and reports whether they were a member
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// UserExists reports whether a user with the given id exists
func (r *Repository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}
