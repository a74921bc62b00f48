package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
	"github.com/jubahomez/jubahomez-backend/pkg/pagination"
)

// Service defines the inbox operations plus notice delivery for the event
// dispatcher.
type Service interface {
	Deliver(ctx context.Context, notice events.Notice) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
}

// ListParams configures pagination for a user's inbox.
type ListParams struct {
	UserID     uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Unread int64                 `json:"unread"`
	Cursor string                `json:"cursor"`
}

// NewService wires notification dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Deliver(ctx context.Context, notice events.Notice) error {
	if notice.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notice recipient required")
	}
	if !notice.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}

	row := models.Notification{
		UserID:  notice.UserID,
		Type:    notice.Type,
		Title:   notice.Title,
		Message: notice.Message,
		RefID:   notice.RefID,
	}
	if notice.RefType != "" {
		refType := notice.RefType
		row.RefType = &refType
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create notification")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listNotificationsParams{
		UserID:     params.UserID,
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list notifications")
	}

	unread, err := s.repo.CountUnread(ctx, params.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count unread notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Unread: unread,
		Cursor: cursor,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	notification, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load notification")
	}
	if notification == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Notification not found")
	}
	if notification.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "Notification belongs to another user")
	}
	if notification.ReadAt != nil {
		return nil
	}

	if err := s.repo.MarkRead(ctx, notificationID, time.Now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark notification read")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	count, err := s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark notifications read")
	}
	return count, nil
}
