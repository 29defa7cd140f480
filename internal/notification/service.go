package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fkhayef/settleup/internal/metrics"
	"github.com/fkhayef/settleup/pkg/money"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")
)

// Service handles notification business logic
type Service struct {
	repo      *Repository
	publisher Publisher
}

// NewService creates a new notification service
func NewService(repo *Repository, publisher Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// NotifyExpenseAdded stores an EXPENSE_ADDED notification for every
// participant other than the payer who owes a positive amount, then
// publishes the event. A broker failure is logged and does not fail the call.
func (s *Service) NotifyExpenseAdded(ctx context.Context, event *ExpenseAdded) error {
	recipients := event.Recipients()
	if len(recipients) > 0 {
		entityType := EntityExpense
		expenseID := event.ExpenseID

		notifications := make([]*Notification, len(recipients))
		for i, r := range recipients {
			notifications[i] = &Notification{
				RecipientID:       r.UserID,
				Message:           expenseAddedMessage(event, r.Amount),
				RelatedEntityType: &entityType,
				RelatedEntityID:   &expenseID,
			}
		}
		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			return err
		}
	}

	if err := s.publisher.PublishExpenseAdded(ctx, event); err != nil {
		metrics.EventsPublished.WithLabelValues("error").Inc()
		slog.ErrorContext(ctx, "failed to publish expense event", "expense_id", event.ExpenseID, "error", err)
		return nil
	}
	metrics.EventsPublished.WithLabelValues("ok").Inc()
	return nil
}

func expenseAddedMessage(event *ExpenseAdded, owed int64) string {
	return fmt.Sprintf("%s added %q (%s); your share is %s",
		event.PayerName, event.Description, money.Format(event.Amount), money.Format(owed))
}

// GetByID retrieves a notification by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

// ListByRecipientID retrieves a page of a user's notifications
func (s *Service) ListByRecipientID(ctx context.Context, recipientID int64, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if err := s.requireUser(ctx, recipientID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id int64) (*Notification, error) {
	notification, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !notification.IsRead {
		if err := s.repo.MarkAsRead(ctx, id); err != nil {
			return nil, err
		}
		notification.IsRead = true
	}
	return notification, nil
}

// MarkAllAsRead marks all notifications as read for a user
func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return 0, err
	}
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return 0, err
	}
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *Service) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}
