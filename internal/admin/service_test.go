package admin

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/internal/properties"
	"github.com/jubahomez/jubahomez-backend/internal/users"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
)

type fakeRepository struct {
	announcements []*models.Announcement
}

func (f *fakeRepository) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	a.ID = uuid.New()
	f.announcements = append(f.announcements, a)
	return nil
}

func (f *fakeRepository) ListAnnouncements(ctx context.Context, at time.Time, limit, offset int) ([]models.Announcement, error) {
	var out []models.Announcement
	for _, a := range f.announcements {
		if a.ExpiresAt == nil || a.ExpiresAt.After(at) {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users        map[uuid.UUID]*models.User
	statusWrites int
	listFn       func(ctx context.Context, params users.ListUsersParams) ([]models.User, error)
}

func newFakeUserRepo(rows ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range rows {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) List(ctx context.Context, params users.ListUsersParams) ([]models.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	var out []models.User
	for _, u := range f.users {
		if params.Role != nil && u.Role != *params.Role {
			continue
		}
		if params.Status != nil && u.Status != *params.Status {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.UserStatus) (bool, error) {
	f.statusWrites++
	if u, ok := f.users[id]; ok {
		u.Status = status
		return true, nil
	}
	return false, nil
}

func (f *fakeUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func (f *fakeUserRepo) ListActiveAdminIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	return nil, nil
}

type fakePropertyRepo struct {
	property       *models.Property
	approvalWrites int
}

func (f *fakePropertyRepo) Create(ctx context.Context, p *models.Property) error { return nil }

func (f *fakePropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	if f.property != nil && f.property.ID == id {
		copied := *f.property
		return &copied, nil
	}
	return nil, nil
}

func (f *fakePropertyRepo) List(ctx context.Context, params properties.ListPropertiesParams) ([]models.Property, error) {
	return nil, nil
}

func (f *fakePropertyRepo) ListForParty(ctx context.Context, userID uuid.UUID) ([]models.Property, error) {
	return nil, nil
}

func (f *fakePropertyRepo) ListAll(ctx context.Context) ([]models.Property, error) {
	return nil, nil
}

func (f *fakePropertyRepo) UpdateApproval(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) (bool, error) {
	f.approvalWrites++
	f.property.ApprovalStatus = status
	return true, nil
}

func (f *fakePropertyRepo) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	return nil
}

func newAdminService(repo Repository, userRepo users.Repository, propertyRepo properties.Repository) Service {
	svc, _ := NewService(repo, userRepo, propertyRepo)
	return svc
}

func TestService_ApproveUserActivatesAndNotifies(t *testing.T) {
	pending := &models.User{ID: uuid.New(), Role: enums.UserRoleOwner, Status: enums.UserStatusPending}
	userRepo := newFakeUserRepo(pending)
	svc := newAdminService(&fakeRepository{}, userRepo, &fakePropertyRepo{})

	user, list, err := svc.ApproveUser(context.Background(), uuid.New(), pending.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Status != enums.UserStatusActive {
		t.Errorf("expected active, got %s", user.Status)
	}
	if len(list.Audits()) != 1 || list.Audits()[0].Action != "user.approved" {
		t.Errorf("expected approval audit, got %+v", list.Audits())
	}
	notices := list.Notices()
	if len(notices) != 1 || notices[0].UserID != pending.ID || notices[0].Type != enums.NotificationTypeApproval {
		t.Errorf("expected approval notice for the user, got %+v", notices)
	}
}

func TestService_ApproveUserAlreadyActiveNoOp(t *testing.T) {
	active := &models.User{ID: uuid.New(), Role: enums.UserRoleBroker, Status: enums.UserStatusActive}
	userRepo := newFakeUserRepo(active)
	svc := newAdminService(&fakeRepository{}, userRepo, &fakePropertyRepo{})

	_, list, err := svc.ApproveUser(context.Background(), uuid.New(), active.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !list.Empty() {
		t.Error("re-approving an active account should emit nothing")
	}
	if userRepo.statusWrites != 0 {
		t.Errorf("expected no status write, got %d", userRepo.statusWrites)
	}
}

func TestService_RejectUserAppliesEveryTime(t *testing.T) {
	rejected := &models.User{ID: uuid.New(), Role: enums.UserRoleCustomer, Status: enums.UserStatusRejected}
	userRepo := newFakeUserRepo(rejected)
	svc := newAdminService(&fakeRepository{}, userRepo, &fakePropertyRepo{})

	user, list, err := svc.RejectUser(context.Background(), uuid.New(), rejected.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Status != enums.UserStatusRejected {
		t.Errorf("expected rejected, got %s", user.Status)
	}
	if userRepo.statusWrites != 1 {
		t.Errorf("expected a status write, got %d", userRepo.statusWrites)
	}
	if len(list.Notices()) != 1 {
		t.Errorf("expected a rejection notice, got %+v", list.Notices())
	}
}

func TestService_ApproveUserMissing(t *testing.T) {
	svc := newAdminService(&fakeRepository{}, newFakeUserRepo(), &fakePropertyRepo{})
	_, _, err := svc.ApproveUser(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_ApprovePropertyNotifiesResponsibleParty(t *testing.T) {
	brokerID := uuid.New()
	ownerID := uuid.New()
	propertyRepo := &fakePropertyRepo{property: &models.Property{
		ID:             uuid.New(),
		Title:          "Hai Cinema plot",
		OwnerID:        &ownerID,
		BrokerID:       &brokerID,
		ApprovalStatus: enums.ApprovalStatusPending,
	}}
	svc := newAdminService(&fakeRepository{}, newFakeUserRepo(), propertyRepo)

	property, list, err := svc.ApproveProperty(context.Background(), uuid.New(), propertyRepo.property.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if property.ApprovalStatus != enums.ApprovalStatusApproved {
		t.Errorf("expected approved, got %s", property.ApprovalStatus)
	}
	notices := list.Notices()
	if len(notices) != 1 || notices[0].UserID != brokerID {
		t.Errorf("broker should be notified ahead of owner, got %+v", notices)
	}
}

func TestService_ApprovePropertyAlreadyApprovedNoOp(t *testing.T) {
	ownerID := uuid.New()
	propertyRepo := &fakePropertyRepo{property: &models.Property{
		ID:             uuid.New(),
		OwnerID:        &ownerID,
		ApprovalStatus: enums.ApprovalStatusApproved,
	}}
	svc := newAdminService(&fakeRepository{}, newFakeUserRepo(), propertyRepo)

	_, list, err := svc.ApproveProperty(context.Background(), uuid.New(), propertyRepo.property.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !list.Empty() || propertyRepo.approvalWrites != 0 {
		t.Error("re-approving should not write or emit events")
	}
}

func TestService_RejectPropertyRequiresReason(t *testing.T) {
	svc := newAdminService(&fakeRepository{}, newFakeUserRepo(), &fakePropertyRepo{})
	_, _, err := svc.RejectProperty(context.Background(), uuid.New(), uuid.New(), " ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_RejectPropertyReApplies(t *testing.T) {
	ownerID := uuid.New()
	propertyRepo := &fakePropertyRepo{property: &models.Property{
		ID:             uuid.New(),
		Title:          "Gudele flat",
		OwnerID:        &ownerID,
		ApprovalStatus: enums.ApprovalStatusRejected,
	}}
	svc := newAdminService(&fakeRepository{}, newFakeUserRepo(), propertyRepo)

	_, list, err := svc.RejectProperty(context.Background(), uuid.New(), propertyRepo.property.ID, "blurry photos")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if propertyRepo.approvalWrites != 1 {
		t.Errorf("rejection should write even when already rejected, got %d writes", propertyRepo.approvalWrites)
	}
	audits := list.Audits()
	if len(audits) != 1 || audits[0].Meta["reason"] != "blurry photos" {
		t.Errorf("expected reason in audit meta, got %+v", audits)
	}
}

func TestService_AnnounceFansOutToAudienceRoles(t *testing.T) {
	owner := &models.User{ID: uuid.New(), Role: enums.UserRoleOwner, Status: enums.UserStatusActive}
	pendingOwner := &models.User{ID: uuid.New(), Role: enums.UserRoleOwner, Status: enums.UserStatusPending}
	broker := &models.User{ID: uuid.New(), Role: enums.UserRoleBroker, Status: enums.UserStatusActive}
	customer := &models.User{ID: uuid.New(), Role: enums.UserRoleCustomer, Status: enums.UserStatusActive}
	userRepo := newFakeUserRepo(owner, pendingOwner, broker, customer)
	repo := &fakeRepository{}
	svc := newAdminService(repo, userRepo, &fakePropertyRepo{})

	adminID := uuid.New()
	announcement, list, err := svc.Announce(context.Background(), adminID, AnnounceParams{
		Title:    "Maintenance window",
		Message:  "Listings will be read-only on Saturday.",
		Audience: []string{"owner", "broker"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var audience []string
	if err := json.Unmarshal([]byte(announcement.AudienceJSON), &audience); err != nil || len(audience) != 2 {
		t.Errorf("expected audience roles persisted, got %q", announcement.AudienceJSON)
	}

	notified := map[uuid.UUID]bool{}
	for _, n := range list.Notices() {
		if n.Type != enums.NotificationTypeAnnouncement {
			t.Errorf("expected announcement notices, got %s", n.Type)
		}
		notified[n.UserID] = true
	}
	if len(notified) != 2 || !notified[owner.ID] || !notified[broker.ID] {
		t.Errorf("expected active owner and broker only, got %v", notified)
	}
	if notified[pendingOwner.ID] || notified[customer.ID] {
		t.Error("pending users and out-of-audience roles must not be notified")
	}
}

func TestService_AnnounceUnknownAudienceRole(t *testing.T) {
	svc := newAdminService(&fakeRepository{}, newFakeUserRepo(), &fakePropertyRepo{})
	_, _, err := svc.Announce(context.Background(), uuid.New(), AnnounceParams{
		Title:    "t",
		Message:  "m",
		Audience: []string{"landlord"},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_ListAnnouncementsSkipsExpired(t *testing.T) {
	repo := &fakeRepository{}
	svc := newAdminService(repo, newFakeUserRepo(), &fakePropertyRepo{})

	past := time.Now().Add(-time.Hour)
	repo.announcements = []*models.Announcement{
		{ID: uuid.New(), Title: "stale", ExpiresAt: &past},
		{ID: uuid.New(), Title: "live"},
	}

	rows, err := svc.ListAnnouncements(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "live" {
		t.Errorf("expected only the live announcement, got %+v", rows)
	}
}
