package media

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/internal/authz"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
	"github.com/jubahomez/jubahomez-backend/pkg/storage"
)

const (
	defaultModerationLimit = 50
	adminNotifyCap         = 50
)

// PropertyDirectory is the slice of the properties repository the media
// workflow needs.
type PropertyDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
}

// AdminDirectory resolves the active admins notified about fresh uploads.
type AdminDirectory interface {
	ListActiveAdminIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
}

// Service implements the media approval workflow.
type Service interface {
	Upload(ctx context.Context, actor authz.Actor, propertyID uuid.UUID, files []UploadFile) (*UploadResult, *events.List, error)
	Approve(ctx context.Context, actor authz.Actor, mediaID uuid.UUID) (*models.Media, *events.List, error)
	Reject(ctx context.Context, actor authz.Actor, mediaID uuid.UUID, reason string) (*models.Media, *events.List, error)
	SoftDelete(ctx context.Context, actor authz.Actor, mediaID uuid.UUID) (*events.List, error)
	ListPublic(ctx context.Context, propertyID uuid.UUID) ([]models.Media, error)
	ListForModeration(ctx context.Context, params ListModerationParams) ([]models.Media, error)
}

type service struct {
	repo       Repository
	properties PropertyDirectory
	admins     AdminDirectory
	store      storage.Store
}

// UploadFile is one part of a multipart upload. Contents must be seekable
// so the MIME sniff can rewind before the save.
type UploadFile struct {
	Name     string
	Contents io.ReadSeeker
}

// UploadItem describes one accepted file.
type UploadItem struct {
	ID       uuid.UUID       `json:"id"`
	Kind     enums.MediaKind `json:"kind"`
	URL      string          `json:"url"`
	ThumbURL *string         `json:"thumbUrl"`
}

// UploadResult lists the accepted files; unsupported MIME types are skipped
// without failing the batch.
type UploadResult struct {
	Uploaded []UploadItem `json:"uploaded"`
	Skipped  int          `json:"skipped"`
}

// NewService wires media dependencies.
func NewService(repo Repository, properties PropertyDirectory, admins AdminDirectory, store storage.Store) (Service, error) {
	if repo == nil || properties == nil || admins == nil || store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "media service dependencies required")
	}
	return &service{
		repo:       repo,
		properties: properties,
		admins:     admins,
		store:      store,
	}, nil
}

func (s *service) Upload(ctx context.Context, actor authz.Actor, propertyID uuid.UUID, files []UploadFile) (*UploadResult, *events.List, error) {
	if len(files) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one file is required")
	}

	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load property")
	}
	if property == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "Property not found")
	}
	if !authz.Allow(actor, authz.Resource{
		OwnerID:  property.OwnerID,
		BrokerID: property.BrokerID,
	}, authz.ActionUploadMedia) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "Not allowed to upload media for this property")
	}

	actorID := actor.ID
	result := &UploadResult{Uploaded: []UploadItem{}}
	list := events.NewList()

	for _, file := range files {
		mtype, err := mimetype.DetectReader(file.Contents)
		if err != nil {
			result.Skipped++
			continue
		}
		if _, err := file.Contents.Seek(0, io.SeekStart); err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rewind upload")
		}

		var kind enums.MediaKind
		switch {
		case strings.HasPrefix(mtype.String(), "image/"):
			kind = enums.MediaKindPhoto
		case strings.HasPrefix(mtype.String(), "video/"):
			kind = enums.MediaKindVideo
		default:
			result.Skipped++
			continue
		}

		saved, err := s.store.Save(ctx, file.Name, file.Contents, kind == enums.MediaKindPhoto)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store upload")
		}

		row := models.Media{
			PropertyID:     property.ID,
			UploadedBy:     actor.ID,
			Kind:           kind,
			URL:            saved.URL,
			ThumbURL:       saved.ThumbURL,
			MimeType:       mtype.String(),
			SizeBytes:      saved.SizeBytes,
			ApprovalStatus: enums.ApprovalStatusPending,
		}
		if err := s.repo.Create(ctx, &row); err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create media row")
		}

		mediaID := row.ID
		list.Audit(events.AuditEntry{
			ActorID:    &actorID,
			Action:     "media.uploaded",
			EntityType: "media",
			EntityID:   &mediaID,
			Meta:       map[string]any{"kind": string(kind), "mime": mtype.String()},
		})

		result.Uploaded = append(result.Uploaded, UploadItem{
			ID:       row.ID,
			Kind:     row.Kind,
			URL:      row.URL,
			ThumbURL: row.ThumbURL,
		})
	}

	if len(result.Uploaded) > 0 {
		adminIDs, err := s.admins.ListActiveAdminIDs(ctx, adminNotifyCap)
		if err == nil {
			propertyRef := property.ID
			for _, adminID := range adminIDs {
				list.NotifyOnce(events.Notice{
					UserID:  adminID,
					Type:    enums.NotificationTypeApproval,
					Title:   "Media pending review",
					Message: "New media was uploaded for " + property.Title,
					RefType: "property",
					RefID:   &propertyRef,
				})
			}
		}
	}

	return result, list, nil
}

func (s *service) Approve(ctx context.Context, actor authz.Actor, mediaID uuid.UUID) (*models.Media, *events.List, error) {
	media, property, err := s.loadForModeration(ctx, actor, mediaID)
	if err != nil {
		return nil, nil, err
	}

	// Re-approving is a no-op; the first approval already audited and
	// notified.
	if media.ApprovalStatus == enums.ApprovalStatusApproved {
		return media, events.NewList(), nil
	}

	if err := s.repo.UpdateApproval(ctx, media.ID, enums.ApprovalStatusApproved); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approve media")
	}
	media.ApprovalStatus = enums.ApprovalStatusApproved

	list := s.moderationEvents(actor, media, property, "media.approved", "Media approved",
		"Your media for "+property.Title+" was approved", nil)
	return media, list, nil
}

func (s *service) Reject(ctx context.Context, actor authz.Actor, mediaID uuid.UUID, reason string) (*models.Media, *events.List, error) {
	media, property, err := s.loadForModeration(ctx, actor, mediaID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.UpdateApproval(ctx, media.ID, enums.ApprovalStatusRejected); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reject media")
	}
	media.ApprovalStatus = enums.ApprovalStatusRejected

	var meta map[string]any
	message := "Your media for " + property.Title + " was rejected"
	if reason != "" {
		meta = map[string]any{"reason": reason}
		message += ": " + reason
	}
	list := s.moderationEvents(actor, media, property, "media.rejected", "Media rejected", message, meta)
	return media, list, nil
}

func (s *service) SoftDelete(ctx context.Context, actor authz.Actor, mediaID uuid.UUID) (*events.List, error) {
	media, err := s.repo.GetByID(ctx, mediaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load media")
	}
	if media == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Media not found")
	}

	property, err := s.properties.GetByID(ctx, media.PropertyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load property")
	}
	if property == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Property not found")
	}
	if !authz.Allow(actor, authz.Resource{
		OwnerID:  property.OwnerID,
		BrokerID: property.BrokerID,
	}, authz.ActionManage) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Not allowed to delete this media")
	}

	deleted, err := s.repo.SoftDelete(ctx, media.ID, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete media")
	}
	if !deleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Media not found")
	}

	actorID := actor.ID
	ref := media.ID
	list := events.NewList().Audit(events.AuditEntry{
		ActorID:    &actorID,
		Action:     "media.deleted",
		EntityType: "media",
		EntityID:   &ref,
	})
	return list, nil
}

func (s *service) ListPublic(ctx context.Context, propertyID uuid.UUID) ([]models.Media, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load property")
	}
	if property == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Property not found")
	}

	rows, err := s.repo.ListPublic(ctx, propertyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list media")
	}
	return rows, nil
}

func (s *service) ListForModeration(ctx context.Context, params ListModerationParams) ([]models.Media, error) {
	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = defaultModerationLimit
	}
	rows, err := s.repo.ListForModeration(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list media")
	}
	return rows, nil
}

func (s *service) loadForModeration(ctx context.Context, actor authz.Actor, mediaID uuid.UUID) (*models.Media, *models.Property, error) {
	media, err := s.repo.GetByID(ctx, mediaID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load media")
	}
	if media == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "Media not found")
	}
	if actor.Role != enums.UserRoleAdmin {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only admins can moderate media")
	}

	property, err := s.properties.GetByID(ctx, media.PropertyID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load property")
	}
	if property == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "Property not found")
	}
	return media, property, nil
}

// moderationEvents builds the audit entry plus the deduplicated uploader/
// owner/broker notification set for an approve or reject transition.
func (s *service) moderationEvents(actor authz.Actor, media *models.Media, property *models.Property, action, title, message string, meta map[string]any) *events.List {
	actorID := actor.ID
	mediaRef := media.ID

	list := events.NewList().Audit(events.AuditEntry{
		ActorID:    &actorID,
		Action:     action,
		EntityType: "media",
		EntityID:   &mediaRef,
		Meta:       meta,
	})

	recipients := []uuid.UUID{media.UploadedBy}
	if property.OwnerID != nil {
		recipients = append(recipients, *property.OwnerID)
	}
	if property.BrokerID != nil {
		recipients = append(recipients, *property.BrokerID)
	}
	for _, recipient := range recipients {
		list.NotifyOnce(events.Notice{
			UserID:  recipient,
			Type:    enums.NotificationTypeApproval,
			Title:   title,
			Message: message,
			RefType: "media",
			RefID:   &mediaRef,
		})
	}
	return list
}
