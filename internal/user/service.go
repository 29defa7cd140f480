package user

import (
	"context"
	"errors"
	"log/slog"
)

// Common errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailAlreadyInUse = errors.New("email already in use")
)

// LedgerInvalidator is told when a write changes balances
type LedgerInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service handles user business logic
type Service struct {
	repo   *Repository
	ledger LedgerInvalidator
}

// NewService creates a new user service with repository dependency injected
func NewService(repo *Repository, ledger LedgerInvalidator) *Service {
	return &Service{repo: repo, ledger: ledger}
}

// Create creates a new user
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	user, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List retrieves all users with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// Delete removes a user and the expenses that involve them
func (s *Service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}

	s.ledger.Invalidate(ctx)
	slog.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}
