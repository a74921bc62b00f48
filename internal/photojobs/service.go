package photojobs

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/internal/authz"
	"github.com/jubahomez/jubahomez-backend/internal/events"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
)

const defaultListLimit = 50

// PropertyDirectory is the slice of the properties repository the photo
// job workflow needs.
type PropertyDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
}

// Service implements the photo job dispatch workflow. Transition guards are
// uniform: nobody, admins included, can skip a stage. Admins do bypass the
// preferred-photographer eligibility check.
type Service interface {
	Create(ctx context.Context, actor authz.Actor, propertyID uuid.UUID, params CreateParams) (*models.PhotoJob, *events.List, error)
	ListOpen(ctx context.Context, actor authz.Actor, limit, offset int) ([]models.PhotoJob, error)
	ListMine(ctx context.Context, actor authz.Actor, limit, offset int) ([]models.PhotoJob, error)
	Accept(ctx context.Context, actor authz.Actor, jobID uuid.UUID, photographerID *uuid.UUID) (*models.PhotoJob, *events.List, error)
	Reject(ctx context.Context, actor authz.Actor, jobID uuid.UUID, reason string) (*models.PhotoJob, *events.List, error)
	Schedule(ctx context.Context, actor authz.Actor, jobID uuid.UUID, at time.Time) (*models.PhotoJob, *events.List, error)
	Complete(ctx context.Context, actor authz.Actor, jobID uuid.UUID) (*models.PhotoJob, *events.List, error)
	SendMessage(ctx context.Context, actor authz.Actor, jobID uuid.UUID, text string) (*models.PhotoJobMessage, *events.List, error)
	ListMessages(ctx context.Context, actor authz.Actor, jobID uuid.UUID) ([]models.PhotoJobMessage, error)
}

type service struct {
	repo       Repository
	properties PropertyDirectory
}

// CreateParams carries the dispatch payload.
type CreateParams struct {
	Notes                   *string
	PreferredDates          []time.Time
	PreferredPhotographerID *uuid.UUID
}

// NewService wires photo job dependencies.
func NewService(repo Repository, properties PropertyDirectory) (Service, error) {
	if repo == nil || properties == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "photojobs service dependencies required")
	}
	return &service{repo: repo, properties: properties}, nil
}

func (s *service) Create(ctx context.Context, actor authz.Actor, propertyID uuid.UUID, params CreateParams) (*models.PhotoJob, *events.List, error) {
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
	}, authz.ActionManage) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only the property's party can request photography")
	}

	job := models.PhotoJob{
		PropertyID:              property.ID,
		RequestedBy:             actor.ID,
		PreferredPhotographerID: params.PreferredPhotographerID,
		Notes:                   params.Notes,
		Status:                  enums.PhotoJobStatusOpen,
	}
	if len(params.PreferredDates) > 0 {
		if raw, err := json.Marshal(params.PreferredDates); err == nil {
			encoded := string(raw)
			job.PreferredDatesJSON = &encoded
		}
	}
	if err := s.repo.Create(ctx, &job); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create photo job")
	}

	actorID := actor.ID
	jobRef := job.ID
	list := events.NewList().Audit(events.AuditEntry{
		ActorID:    &actorID,
		Action:     "photo_job.created",
		EntityType: "photo_job",
		EntityID:   &jobRef,
	})
	if job.PreferredPhotographerID != nil {
		list.NotifyOnce(events.Notice{
			UserID:  *job.PreferredPhotographerID,
			Type:    enums.NotificationTypePhotoJob,
			Title:   "Photo job for you",
			Message: "You were requested for a photo job at " + property.Title,
			RefType: "photo_job",
			RefID:   &jobRef,
		})
	}

	return &job, list, nil
}

func (s *service) ListOpen(ctx context.Context, actor authz.Actor, limit, offset int) ([]models.PhotoJob, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultListLimit
	}

	var eligibleFor *uuid.UUID
	switch actor.Role {
	case enums.UserRoleAdmin:
	case enums.UserRolePhotographer:
		id := actor.ID
		eligibleFor = &id
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only photographers can browse open jobs")
	}

	jobs, err := s.repo.ListOpen(ctx, eligibleFor, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list open jobs")
	}
	return jobs, nil
}

func (s *service) ListMine(ctx context.Context, actor authz.Actor, limit, offset int) ([]models.PhotoJob, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultListLimit
	}
	id := actor.ID
	params := ListJobsParams{Limit: limit, Offset: offset}
	switch actor.Role {
	case enums.UserRoleAdmin:
	case enums.UserRolePhotographer:
		params.PhotographerID = &id
	default:
		params.RequestedBy = &id
	}

	jobs, err := s.repo.ListForUser(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list jobs")
	}
	return jobs, nil
}

// Accept moves an open job to assigned. Photographers accept for
// themselves, subject to the preferred-photographer restriction; admins
// force-assign an explicit photographer.
func (s *service) Accept(ctx context.Context, actor authz.Actor, jobID uuid.UUID, photographerID *uuid.UUID) (*models.PhotoJob, *events.List, error) {
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}

	var assignee uuid.UUID
	switch actor.Role {
	case enums.UserRoleAdmin:
		if photographerID == nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "photographerId is required")
		}
		assignee = *photographerID
	case enums.UserRolePhotographer:
		if job.PreferredPhotographerID != nil && *job.PreferredPhotographerID != actor.ID {
			return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "This job prefers another photographer")
		}
		assignee = actor.ID
	default:
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only photographers can accept jobs")
	}

	if job.Status != enums.PhotoJobStatusOpen {
		return nil, nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Job is no longer open")
	}

	assigned, err := s.repo.Assign(ctx, job.ID, assignee)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign job")
	}
	if !assigned {
		return nil, nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Job is no longer open")
	}
	job.Status = enums.PhotoJobStatusAssigned
	job.PhotographerID = &assignee

	list := s.transitionEvents(actor, job, "photo_job.accepted", "Photo job accepted",
		"Your photo job was accepted", nil)
	return job, list, nil
}

// Reject moves an open job to rejected. Same eligibility as Accept; a
// reason is mandatory.
func (s *service) Reject(ctx context.Context, actor authz.Actor, jobID uuid.UUID, reason string) (*models.PhotoJob, *events.List, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}

	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}

	switch actor.Role {
	case enums.UserRoleAdmin:
	case enums.UserRolePhotographer:
		if job.PreferredPhotographerID != nil && *job.PreferredPhotographerID != actor.ID {
			return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "This job prefers another photographer")
		}
	default:
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only photographers can reject jobs")
	}

	if job.Status != enums.PhotoJobStatusOpen {
		return nil, nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Job is no longer open")
	}

	rejected, err := s.repo.Reject(ctx, job.ID, reason)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reject job")
	}
	if !rejected {
		return nil, nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Job is no longer open")
	}
	job.Status = enums.PhotoJobStatusRejected
	job.RejectReason = &reason

	list := s.transitionEvents(actor, job, "photo_job.rejected", "Photo job rejected",
		"Your photo job was rejected: "+reason, map[string]any{"reason": reason})
	return job, list, nil
}

// Schedule sets the shoot time. Re-scheduling repeats the transition from
// the scheduled state.
func (s *service) Schedule(ctx context.Context, actor authz.Actor, jobID uuid.UUID, at time.Time) (*models.PhotoJob, *events.List, error) {
	if at.IsZero() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduledAt is required")
	}

	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if !authz.Allow(actor, authz.Resource{PhotographerID: job.PhotographerID}, authz.ActionManage) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only the assigned photographer can schedule this job")
	}
	if job.Status != enums.PhotoJobStatusAssigned && job.Status != enums.PhotoJobStatusScheduled {
		return nil, nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Job cannot be scheduled from its current status")
	}

	scheduled, err := s.repo.Schedule(ctx, job.ID, at)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "schedule job")
	}
	if !scheduled {
		return nil, nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Job cannot be scheduled from its current status")
	}
	job.Status = enums.PhotoJobStatusScheduled
	job.ScheduledAt = &at

	list := s.transitionEvents(actor, job, "photo_job.scheduled", "Photo job scheduled",
		"Your photo shoot is scheduled for "+at.Format(time.RFC1123), nil)
	return job, list, nil
}

func (s *service) Complete(ctx context.Context, actor authz.Actor, jobID uuid.UUID) (*models.PhotoJob, *events.List, error) {
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if !authz.Allow(actor, authz.Resource{PhotographerID: job.PhotographerID}, authz.ActionManage) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only the assigned photographer can complete this job")
	}
	if job.Status != enums.PhotoJobStatusScheduled {
		return nil, nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Only scheduled jobs can be completed")
	}

	completed, err := s.repo.Complete(ctx, job.ID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete job")
	}
	if !completed {
		return nil, nil, pkgerrors.New(pkgerrors.CodeBadRequest, "Only scheduled jobs can be completed")
	}
	job.Status = enums.PhotoJobStatusCompleted

	list := s.transitionEvents(actor, job, "photo_job.completed", "Photo job completed",
		"Your photo job was completed", nil)
	return job, list, nil
}

func (s *service) SendMessage(ctx context.Context, actor authz.Actor, jobID uuid.UUID, text string) (*models.PhotoJobMessage, *events.List, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if !canAccessJob(actor, job) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "Not allowed to message on this job")
	}

	message := models.PhotoJobMessage{
		JobID:        job.ID,
		SenderUserID: actor.ID,
		Message:      text,
	}
	if err := s.repo.CreateMessage(ctx, &message); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create message")
	}

	list := events.NewList()
	jobRef := job.ID
	if target := messageCounterparty(actor, job); target != nil {
		list.NotifyOnce(events.Notice{
			UserID:  *target,
			Type:    enums.NotificationTypePhotoJob,
			Title:   "New message",
			Message: "You have a new message on a photo job",
			RefType: "photo_job",
			RefID:   &jobRef,
		})
	}

	return &message, list, nil
}

func (s *service) ListMessages(ctx context.Context, actor authz.Actor, jobID uuid.UUID) ([]models.PhotoJobMessage, error) {
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !canAccessJob(actor, job) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Not allowed to view this job's messages")
	}

	messages, err := s.repo.ListMessages(ctx, job.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list messages")
	}
	return messages, nil
}

func (s *service) loadJob(ctx context.Context, jobID uuid.UUID) (*models.PhotoJob, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load job")
	}
	if job == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Photo job not found")
	}
	return job, nil
}

func canAccessJob(actor authz.Actor, job *models.PhotoJob) bool {
	if actor.Role == enums.UserRoleAdmin {
		return true
	}
	if job.PhotographerID != nil && *job.PhotographerID == actor.ID {
		return true
	}
	return job.RequestedBy == actor.ID
}

// messageCounterparty targets the other side of the thread: the requester
// when a photographer writes, the photographer otherwise.
func messageCounterparty(actor authz.Actor, job *models.PhotoJob) *uuid.UUID {
	if job.PhotographerID != nil && *job.PhotographerID == actor.ID {
		requester := job.RequestedBy
		return &requester
	}
	return job.PhotographerID
}

// transitionEvents audits the transition and notifies the requester, who
// is the counterparty for every photographer- or admin-initiated change.
func (s *service) transitionEvents(actor authz.Actor, job *models.PhotoJob, action, title, message string, meta map[string]any) *events.List {
	actorID := actor.ID
	jobRef := job.ID

	list := events.NewList().Audit(events.AuditEntry{
		ActorID:    &actorID,
		Action:     action,
		EntityType: "photo_job",
		EntityID:   &jobRef,
		Meta:       meta,
	})
	list.NotifyOnce(events.Notice{
		UserID:  job.RequestedBy,
		Type:    enums.NotificationTypePhotoJob,
		Title:   title,
		Message: message,
		RefType: "photo_job",
		RefID:   &jobRef,
	})
	return list
}
