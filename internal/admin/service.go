package admin

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/internal/properties"
	"github.com/jubahomez/jubahomez-backend/internal/users"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	// announceFanOutCap bounds how many users per audience role receive an
	// inbox notice for one announcement.
	announceFanOutCap = 500
)

// Service covers the admin console: account moderation, property approval
// and announcements. Media moderation lives in the media service.
type Service interface {
	ListUsers(ctx context.Context, params users.ListUsersParams) ([]models.User, error)
	ApproveUser(ctx context.Context, actorID, userID uuid.UUID) (*models.User, *events.List, error)
	RejectUser(ctx context.Context, actorID, userID uuid.UUID) (*models.User, *events.List, error)
	ListProperties(ctx context.Context, params properties.ListPropertiesParams) ([]models.Property, error)
	ApproveProperty(ctx context.Context, actorID, propertyID uuid.UUID) (*models.Property, *events.List, error)
	RejectProperty(ctx context.Context, actorID, propertyID uuid.UUID, reason string) (*models.Property, *events.List, error)
	Announce(ctx context.Context, actorID uuid.UUID, params AnnounceParams) (*models.Announcement, *events.List, error)
	ListAnnouncements(ctx context.Context, limit, offset int) ([]models.Announcement, error)
}

type service struct {
	repo       Repository
	users      users.Repository
	properties properties.Repository
	now        func() time.Time
}

// AnnounceParams carries a new announcement. Audience names the roles
// whose active users get an inbox notice.
type AnnounceParams struct {
	Title     string
	Message   string
	Audience  []string
	ExpiresAt *time.Time
}

// NewService wires admin dependencies.
func NewService(repo Repository, userRepo users.Repository, propertyRepo properties.Repository) (Service, error) {
	if repo == nil || userRepo == nil || propertyRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admin service dependencies required")
	}
	return &service{
		repo:       repo,
		users:      userRepo,
		properties: propertyRepo,
		now:        time.Now,
	}, nil
}

func (s *service) ListUsers(ctx context.Context, params users.ListUsersParams) ([]models.User, error) {
	params.Limit = clampLimit(params.Limit)
	rows, err := s.users.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return rows, nil
}

// ApproveUser activates a pending account. Approving an already active
// account is a no-op.
func (s *service) ApproveUser(ctx context.Context, actorID, userID uuid.UUID) (*models.User, *events.List, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user.Status == enums.UserStatusActive {
		return user, events.NewList(), nil
	}

	if _, err := s.users.UpdateStatus(ctx, user.ID, enums.UserStatusActive); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approve user")
	}
	user.Status = enums.UserStatusActive

	list := s.accountEvents(actorID, user, "user.approved",
		"Account approved", "Your account was approved. You can now sign in.")
	return user, list, nil
}

func (s *service) RejectUser(ctx context.Context, actorID, userID uuid.UUID) (*models.User, *events.List, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.users.UpdateStatus(ctx, user.ID, enums.UserStatusRejected); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reject user")
	}
	user.Status = enums.UserStatusRejected

	list := s.accountEvents(actorID, user, "user.rejected",
		"Account rejected", "Your account was not approved.")
	return user, list, nil
}

func (s *service) ListProperties(ctx context.Context, params properties.ListPropertiesParams) ([]models.Property, error) {
	params.Limit = clampLimit(params.Limit)
	rows, err := s.properties.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list properties")
	}
	return rows, nil
}

// ApproveProperty publishes a listing. Re-approving is a no-op; approving
// a previously rejected listing is allowed.
func (s *service) ApproveProperty(ctx context.Context, actorID, propertyID uuid.UUID) (*models.Property, *events.List, error) {
	property, err := s.loadProperty(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	if property.ApprovalStatus == enums.ApprovalStatusApproved {
		return property, events.NewList(), nil
	}

	if _, err := s.properties.UpdateApproval(ctx, property.ID, enums.ApprovalStatusApproved); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approve property")
	}
	property.ApprovalStatus = enums.ApprovalStatusApproved

	list := s.approvalEvents(actorID, property, "property.approved",
		"Listing approved", "Your listing "+property.Title+" is now public.", nil)
	return property, list, nil
}

// RejectProperty takes a listing off the public surface. A reason is
// mandatory and the rejection always re-applies.
func (s *service) RejectProperty(ctx context.Context, actorID, propertyID uuid.UUID, reason string) (*models.Property, *events.List, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}

	property, err := s.loadProperty(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.properties.UpdateApproval(ctx, property.ID, enums.ApprovalStatusRejected); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reject property")
	}
	property.ApprovalStatus = enums.ApprovalStatusRejected

	list := s.approvalEvents(actorID, property, "property.rejected",
		"Listing rejected", "Your listing "+property.Title+" was rejected: "+reason,
		map[string]any{"reason": reason})
	return property, list, nil
}

func (s *service) Announce(ctx context.Context, actorID uuid.UUID, params AnnounceParams) (*models.Announcement, *events.List, error) {
	title := strings.TrimSpace(params.Title)
	message := strings.TrimSpace(params.Message)
	if title == "" || message == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "title and message are required")
	}
	roles, err := parseAudience(params.Audience)
	if err != nil {
		return nil, nil, err
	}

	audienceJSON, err := json.Marshal(params.Audience)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode audience")
	}
	announcement := models.Announcement{
		Title:        title,
		Message:      message,
		AudienceJSON: string(audienceJSON),
		ExpiresAt:    params.ExpiresAt,
		CreatedBy:    actorID,
	}
	if err := s.repo.CreateAnnouncement(ctx, &announcement); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create announcement")
	}

	actor := actorID
	ref := announcement.ID
	list := events.NewList().Audit(events.AuditEntry{
		ActorID:    &actor,
		Action:     "announcement.created",
		EntityType: "announcement",
		EntityID:   &ref,
		Meta:       map[string]any{"audience": params.Audience},
	})

	active := enums.UserStatusActive
	for _, role := range roles {
		roleFilter := role
		recipients, err := s.users.List(ctx, users.ListUsersParams{
			Role:   &roleFilter,
			Status: &active,
			Limit:  announceFanOutCap,
		})
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list audience")
		}
		for _, recipient := range recipients {
			list.NotifyOnce(events.Notice{
				UserID:  recipient.ID,
				Type:    enums.NotificationTypeAnnouncement,
				Title:   title,
				Message: message,
				RefType: "announcement",
				RefID:   &ref,
			})
		}
	}

	return &announcement, list, nil
}

func (s *service) ListAnnouncements(ctx context.Context, limit, offset int) ([]models.Announcement, error) {
	rows, err := s.repo.ListAnnouncements(ctx, s.now(), clampLimit(limit), offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list announcements")
	}
	return rows, nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
	}
	return user, nil
}

func (s *service) loadProperty(ctx context.Context, propertyID uuid.UUID) (*models.Property, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load property")
	}
	if property == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Property not found")
	}
	return property, nil
}

func (s *service) accountEvents(actorID uuid.UUID, user *models.User, action, title, message string) *events.List {
	actor := actorID
	ref := user.ID
	list := events.NewList().Audit(events.AuditEntry{
		ActorID:    &actor,
		Action:     action,
		EntityType: "user",
		EntityID:   &ref,
	})
	list.NotifyOnce(events.Notice{
		UserID:  user.ID,
		Type:    enums.NotificationTypeApproval,
		Title:   title,
		Message: message,
		RefType: "user",
		RefID:   &ref,
	})
	return list
}

func (s *service) approvalEvents(actorID uuid.UUID, property *models.Property, action, title, message string, meta map[string]any) *events.List {
	actor := actorID
	ref := property.ID
	list := events.NewList().Audit(events.AuditEntry{
		ActorID:    &actor,
		Action:     action,
		EntityType: "property",
		EntityID:   &ref,
		Meta:       meta,
	})
	if party := property.ResponsibleParty(); party != nil {
		list.NotifyOnce(events.Notice{
			UserID:  *party,
			Type:    enums.NotificationTypeApproval,
			Title:   title,
			Message: message,
			RefType: "property",
			RefID:   &ref,
		})
	}
	return list
}

func parseAudience(audience []string) ([]enums.UserRole, error) {
	if len(audience) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "audience is required")
	}
	roles := make([]enums.UserRole, 0, len(audience))
	for _, raw := range audience {
		role, err := enums.ParseUserRole(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown audience role: "+raw)
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
