package photojobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/internal/authz"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
)

type fakeRepository struct {
	job        *models.PhotoJob
	assignFn   func(ctx context.Context, id, photographerID uuid.UUID) (bool, error)
	rejectFn   func(ctx context.Context, id uuid.UUID, reason string) (bool, error)
	scheduleFn func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	completeFn func(ctx context.Context, id uuid.UUID) (bool, error)
	listOpenFn func(ctx context.Context, eligibleFor *uuid.UUID, limit, offset int) ([]models.PhotoJob, error)
	messages   []*models.PhotoJobMessage
}

func (f *fakeRepository) Create(ctx context.Context, job *models.PhotoJob) error {
	job.ID = uuid.New()
	f.job = job
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PhotoJob, error) {
	if f.job != nil && f.job.ID == id {
		copied := *f.job
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRepository) ListOpen(ctx context.Context, eligibleFor *uuid.UUID, limit, offset int) ([]models.PhotoJob, error) {
	if f.listOpenFn != nil {
		return f.listOpenFn(ctx, eligibleFor, limit, offset)
	}
	return nil, nil
}

func (f *fakeRepository) ListForUser(ctx context.Context, params ListJobsParams) ([]models.PhotoJob, error) {
	return nil, nil
}

func (f *fakeRepository) Assign(ctx context.Context, id, photographerID uuid.UUID) (bool, error) {
	if f.assignFn != nil {
		return f.assignFn(ctx, id, photographerID)
	}
	return true, nil
}

func (f *fakeRepository) Reject(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	if f.rejectFn != nil {
		return f.rejectFn(ctx, id, reason)
	}
	return true, nil
}

func (f *fakeRepository) Schedule(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	if f.scheduleFn != nil {
		return f.scheduleFn(ctx, id, at)
	}
	return true, nil
}

func (f *fakeRepository) Complete(ctx context.Context, id uuid.UUID) (bool, error) {
	if f.completeFn != nil {
		return f.completeFn(ctx, id)
	}
	return true, nil
}

func (f *fakeRepository) CreateMessage(ctx context.Context, message *models.PhotoJobMessage) error {
	message.ID = uuid.New()
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeRepository) ListMessages(ctx context.Context, jobID uuid.UUID) ([]models.PhotoJobMessage, error) {
	var out []models.PhotoJobMessage
	for _, m := range f.messages {
		if m.JobID == jobID {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakePropertyDirectory struct {
	property *models.Property
}

func (f *fakePropertyDirectory) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	if f.property != nil && f.property.ID == id {
		return f.property, nil
	}
	return nil, nil
}

func newJobService(repo Repository, property *models.Property) Service {
	svc, _ := NewService(repo, &fakePropertyDirectory{property: property})
	return svc
}

func openJob(requestedBy uuid.UUID, preferred *uuid.UUID) *models.PhotoJob {
	return &models.PhotoJob{
		ID:                      uuid.New(),
		PropertyID:              uuid.New(),
		RequestedBy:             requestedBy,
		PreferredPhotographerID: preferred,
		Status:                  enums.PhotoJobStatusOpen,
	}
}

func TestService_CreateByOwnerNotifiesPreferredPhotographer(t *testing.T) {
	ownerID := uuid.New()
	preferred := uuid.New()
	property := &models.Property{ID: uuid.New(), Title: "Munuki compound", OwnerID: &ownerID}
	repo := &fakeRepository{}
	svc := newJobService(repo, property)

	job, list, err := svc.Create(context.Background(), authz.Actor{ID: ownerID, Role: enums.UserRoleOwner}, property.ID, CreateParams{
		PreferredPhotographerID: &preferred,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != enums.PhotoJobStatusOpen {
		t.Errorf("expected open, got %s", job.Status)
	}
	if len(list.Notices()) != 1 || list.Notices()[0].UserID != preferred {
		t.Errorf("expected preferred photographer notice, got %+v", list.Notices())
	}
}

func TestService_CreateByCustomerForbidden(t *testing.T) {
	property := &models.Property{ID: uuid.New(), OwnerID: ptr(uuid.New())}
	svc := newJobService(&fakeRepository{}, property)

	_, _, err := svc.Create(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleCustomer}, property.ID, CreateParams{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestService_AcceptPreferredPhotographerOnly(t *testing.T) {
	preferred := uuid.New()
	other := uuid.New()
	repo := &fakeRepository{job: openJob(uuid.New(), &preferred)}
	svc := newJobService(repo, nil)

	_, _, err := svc.Accept(context.Background(), authz.Actor{ID: other, Role: enums.UserRolePhotographer}, repo.job.ID, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-preferred photographer, got %v", err)
	}

	job, _, err := svc.Accept(context.Background(), authz.Actor{ID: preferred, Role: enums.UserRolePhotographer}, repo.job.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != enums.PhotoJobStatusAssigned {
		t.Errorf("expected assigned, got %s", job.Status)
	}
	if job.PhotographerID == nil || *job.PhotographerID != preferred {
		t.Errorf("expected photographer %s, got %v", preferred, job.PhotographerID)
	}
}

func TestService_AcceptNonOpenJobBadRequestEvenForAdmin(t *testing.T) {
	photographer := uuid.New()
	repo := &fakeRepository{job: openJob(uuid.New(), nil)}
	repo.job.Status = enums.PhotoJobStatusAssigned
	repo.job.PhotographerID = &photographer
	svc := newJobService(repo, nil)

	_, _, err := svc.Accept(context.Background(), authz.Actor{ID: photographer, Role: enums.UserRolePhotographer}, repo.job.ID, nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeBadRequest {
		t.Fatalf("expected bad request for photographer, got %v", err)
	}

	forced := uuid.New()
	_, _, err = svc.Accept(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}, repo.job.ID, &forced)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeBadRequest {
		t.Fatalf("expected bad request for admin too, got %v", err)
	}
}

func TestService_AcceptLostRace(t *testing.T) {
	photographer := uuid.New()
	repo := &fakeRepository{
		job: openJob(uuid.New(), nil),
		assignFn: func(_ context.Context, _, _ uuid.UUID) (bool, error) {
			return false, nil
		},
	}
	svc := newJobService(repo, nil)

	_, _, err := svc.Accept(context.Background(), authz.Actor{ID: photographer, Role: enums.UserRolePhotographer}, repo.job.ID, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBadRequest {
		t.Fatalf("expected bad request when the conditional update missed, got %v", err)
	}
}

func TestService_AdminForceAssignBypassesPreference(t *testing.T) {
	preferred := uuid.New()
	repo := &fakeRepository{job: openJob(uuid.New(), &preferred)}
	svc := newJobService(repo, nil)

	assignee := uuid.New()
	job, _, err := svc.Accept(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}, repo.job.ID, &assignee)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.PhotographerID == nil || *job.PhotographerID != assignee {
		t.Errorf("expected forced assignee, got %v", job.PhotographerID)
	}
}

func TestService_RejectRequiresReason(t *testing.T) {
	repo := &fakeRepository{job: openJob(uuid.New(), nil)}
	svc := newJobService(repo, nil)

	_, _, err := svc.Reject(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRolePhotographer}, repo.job.ID, "  ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_TransitionMatrix(t *testing.T) {
	photographer := uuid.New()
	requester := uuid.New()
	at := time.Now().Add(24 * time.Hour)

	cases := []struct {
		name   string
		status enums.PhotoJobStatus
		call   string
		wantOK bool
	}{
		{"schedule from assigned", enums.PhotoJobStatusAssigned, "schedule", true},
		{"schedule from scheduled", enums.PhotoJobStatusScheduled, "schedule", true},
		{"schedule from open", enums.PhotoJobStatusOpen, "schedule", false},
		{"schedule from completed", enums.PhotoJobStatusCompleted, "schedule", false},
		{"complete from scheduled", enums.PhotoJobStatusScheduled, "complete", true},
		{"complete from assigned", enums.PhotoJobStatusAssigned, "complete", false},
		{"complete from rejected", enums.PhotoJobStatusRejected, "complete", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			job := openJob(requester, nil)
			job.Status = tc.status
			job.PhotographerID = &photographer
			repo := &fakeRepository{job: job}
			svc := newJobService(repo, nil)
			actor := authz.Actor{ID: photographer, Role: enums.UserRolePhotographer}

			var err error
			switch tc.call {
			case "schedule":
				_, _, err = svc.Schedule(context.Background(), actor, job.ID, at)
			case "complete":
				_, _, err = svc.Complete(context.Background(), actor, job.ID)
			}

			if tc.wantOK && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !tc.wantOK {
				typed := pkgerrors.As(err)
				if typed == nil || typed.Code() != pkgerrors.CodeBadRequest {
					t.Fatalf("expected bad request, got %v", err)
				}
			}
		})
	}
}

func TestService_ScheduleByUnassignedPhotographerForbidden(t *testing.T) {
	assigned := uuid.New()
	job := openJob(uuid.New(), nil)
	job.Status = enums.PhotoJobStatusAssigned
	job.PhotographerID = &assigned
	repo := &fakeRepository{job: job}
	svc := newJobService(repo, nil)

	_, _, err := svc.Schedule(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRolePhotographer}, job.ID, time.Now().Add(time.Hour))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestService_MessagesTargetOtherSide(t *testing.T) {
	photographer := uuid.New()
	requester := uuid.New()
	job := openJob(requester, nil)
	job.Status = enums.PhotoJobStatusAssigned
	job.PhotographerID = &photographer
	repo := &fakeRepository{job: job}
	svc := newJobService(repo, nil)

	_, list, err := svc.SendMessage(context.Background(), authz.Actor{ID: photographer, Role: enums.UserRolePhotographer}, job.ID, "Arriving at 10am")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Notices()) != 1 || list.Notices()[0].UserID != requester {
		t.Errorf("photographer message should notify requester, got %+v", list.Notices())
	}

	_, list, err = svc.SendMessage(context.Background(), authz.Actor{ID: requester, Role: enums.UserRoleOwner}, job.ID, "Gate code is 4421")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Notices()) != 1 || list.Notices()[0].UserID != photographer {
		t.Errorf("requester message should notify photographer, got %+v", list.Notices())
	}

	messages, err := svc.ListMessages(context.Background(), authz.Actor{ID: requester, Role: enums.UserRoleOwner}, job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("expected 2 thread entries, got %d", len(messages))
	}
}

func TestService_MessagesStrangerForbidden(t *testing.T) {
	job := openJob(uuid.New(), nil)
	repo := &fakeRepository{job: job}
	svc := newJobService(repo, nil)

	_, _, err := svc.SendMessage(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleCustomer}, job.ID, "hello")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestService_ListOpenScopesEligibility(t *testing.T) {
	photographer := uuid.New()
	var seen *uuid.UUID
	sentinel := uuid.New()
	repo := &fakeRepository{
		listOpenFn: func(_ context.Context, eligibleFor *uuid.UUID, _, _ int) ([]models.PhotoJob, error) {
			if eligibleFor == nil {
				seen = &sentinel
			} else {
				seen = eligibleFor
			}
			return nil, nil
		},
	}
	svc := newJobService(repo, nil)

	if _, err := svc.ListOpen(context.Background(), authz.Actor{ID: photographer, Role: enums.UserRolePhotographer}, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen == nil || *seen != photographer {
		t.Error("photographer listing should be eligibility-scoped")
	}

	if _, err := svc.ListOpen(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen == nil || *seen != sentinel {
		t.Error("admin listing should be unscoped")
	}

	_, err := svc.ListOpen(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleOwner}, 0, 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for owner, got %v", err)
	}
}

func TestService_AcceptMissingJob(t *testing.T) {
	svc := newJobService(&fakeRepository{}, nil)
	_, _, err := svc.Accept(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRolePhotographer}, uuid.New(), nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
