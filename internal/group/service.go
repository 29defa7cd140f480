package group

import (
	"context"
	"errors"
	"log/slog"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotMember     = errors.New("user is not a member of this group")
)

// LedgerInvalidator is told when a write changes balances
type LedgerInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service handles group business logic
type Service struct {
	repo   *Repository
	ledger LedgerInvalidator
}

// NewService creates a new group service with repository dependency injected
func NewService(repo *Repository, ledger LedgerInvalidator) *Service {
	return &Service{repo: repo, ledger: ledger}
}

// Create creates a group with the given members
func (s *Service) Create(ctx context.Context, req *CreateGroupRequest) (*Group, []*Member, error) {
	group, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, group.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(members) != len(req.MemberIDs) {
		slog.WarnContext(ctx, "skipped unknown or repeated member ids",
			"group_id", group.ID,
			"requested", len(req.MemberIDs),
			"added", len(members),
		)
	}

	slog.InfoContext(ctx, "group created", "group_id", group.ID, "members", len(members))
	return group, members, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByIDWithMembers retrieves a group along with its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Group, []*Member, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// List retrieves a page of groups and the members of each, keyed by group id
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Group, map[int64][]*Member, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	groups, total, err := s.repo.List(ctx, perPage, offset)
	if err != nil {
		return nil, nil, 0, err
	}

	members := make(map[int64][]*Member, len(groups))
	for _, g := range groups {
		if members[g.ID], err = s.repo.GetMembers(ctx, g.ID); err != nil {
			return nil, nil, 0, err
		}
	}
	return groups, members, total, nil
}

// Delete removes a group with its memberships and expenses
func (s *Service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrGroupNotFound
	}

	s.ledger.Invalidate(ctx)
	slog.InfoContext(ctx, "group deleted", "group_id", id)
	return nil
}

// AddMember adds an existing user to an existing group
func (s *Service) AddMember(ctx context.Context, groupID, userID int64) ([]*Member, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	if err := s.repo.AddMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	s.ledger.Invalidate(ctx)

	return s.repo.GetMembers(ctx, groupID)
}

// GetMembers retrieves all members of a group
func (s *Service) GetMembers(ctx context.Context, groupID int64) ([]*Member, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.GetMembers(ctx, groupID)
}

// RemoveMember removes a user from a group. Expenses the user took part in
// stay in the group ledger.
func (s *Service) RemoveMember(ctx context.Context, groupID, userID int64) error {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return err
	}

	removed, err := s.repo.RemoveMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotMember
	}

	s.ledger.Invalidate(ctx)
	return nil
}
