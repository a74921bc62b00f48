package media

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/internal/authz"
	"github.com/jubahomez/jubahomez-backend/pkg/db/models"
	"github.com/jubahomez/jubahomez-backend/pkg/enums"
	pkgerrors "github.com/jubahomez/jubahomez-backend/pkg/errors"
	"github.com/jubahomez/jubahomez-backend/pkg/storage"
)

type fakeRepository struct {
	created          []*models.Media
	getByIDFn        func(ctx context.Context, id uuid.UUID) (*models.Media, error)
	listPublicFn     func(ctx context.Context, propertyID uuid.UUID) ([]models.Media, error)
	updateApprovalFn func(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) error
	softDeleteFn     func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

func (f *fakeRepository) Create(ctx context.Context, media *models.Media) error {
	media.ID = uuid.New()
	f.created = append(f.created, media)
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeRepository) ListPublic(ctx context.Context, propertyID uuid.UUID) ([]models.Media, error) {
	if f.listPublicFn != nil {
		return f.listPublicFn(ctx, propertyID)
	}
	return nil, nil
}

func (f *fakeRepository) ListForModeration(ctx context.Context, params ListModerationParams) ([]models.Media, error) {
	return nil, nil
}

func (f *fakeRepository) UpdateApproval(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) error {
	if f.updateApprovalFn != nil {
		return f.updateApprovalFn(ctx, id, status)
	}
	return nil
}

func (f *fakeRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	if f.softDeleteFn != nil {
		return f.softDeleteFn(ctx, id, at)
	}
	return true, nil
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

type fakeAdminDirectory struct {
	ids []uuid.UUID
}

func (f *fakeAdminDirectory) ListActiveAdminIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	return f.ids, nil
}

type fakeStore struct {
	saved int
}

func (f *fakeStore) Save(_ context.Context, fileName string, contents io.Reader, thumbnail bool) (*storage.SavedFile, error) {
	size, _ := io.Copy(io.Discard, contents)
	f.saved++
	saved := &storage.SavedFile{URL: "/uploads/" + fileName, SizeBytes: size}
	if thumbnail {
		thumb := "/uploads/thumb-" + fileName
		saved.ThumbURL = &thumb
	}
	return saved, nil
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func testProperty(ownerID uuid.UUID) *models.Property {
	return &models.Property{
		ID:             uuid.New(),
		Title:          "Tongping townhouse",
		OwnerID:        &ownerID,
		ApprovalStatus: enums.ApprovalStatusApproved,
	}
}

func newMediaService(repo Repository, props PropertyDirectory, admins AdminDirectory, store storage.Store) Service {
	svc, _ := NewService(repo, props, admins, store)
	return svc
}

func TestService_UploadSkipsUnsupportedFiles(t *testing.T) {
	ownerID := uuid.New()
	property := testProperty(ownerID)
	repo := &fakeRepository{}
	admins := &fakeAdminDirectory{ids: []uuid.UUID{uuid.New(), uuid.New()}}
	store := &fakeStore{}

	svc := newMediaService(repo, &fakePropertyDirectory{property: property}, admins, store)

	files := []UploadFile{
		{Name: "front.png", Contents: bytes.NewReader(pngHeader)},
		{Name: "notes.txt", Contents: bytes.NewReader([]byte("just some text"))},
		{Name: "side.png", Contents: bytes.NewReader(pngHeader)},
	}

	result, list, err := svc.Upload(context.Background(), authz.Actor{ID: ownerID, Role: enums.UserRoleOwner}, property.ID, files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Uploaded) != 2 || result.Skipped != 1 {
		t.Fatalf("expected 2 accepted and 1 skipped, got %+v", result)
	}
	if len(repo.created) != 2 {
		t.Fatalf("expected 2 rows inserted, got %d", len(repo.created))
	}
	for _, row := range repo.created {
		if row.ApprovalStatus != enums.ApprovalStatusPending {
			t.Errorf("expected pending row, got %s", row.ApprovalStatus)
		}
		if row.Kind != enums.MediaKindPhoto {
			t.Errorf("expected photo kind, got %s", row.Kind)
		}
	}
	if len(list.Audits()) != 2 {
		t.Errorf("expected one audit per accepted file, got %d", len(list.Audits()))
	}
	if len(list.Notices()) != 2 {
		t.Errorf("expected every active admin notified, got %d", len(list.Notices()))
	}
}

func TestService_UploadForbiddenForCustomer(t *testing.T) {
	property := testProperty(uuid.New())
	svc := newMediaService(&fakeRepository{}, &fakePropertyDirectory{property: property}, &fakeAdminDirectory{}, &fakeStore{})

	_, _, err := svc.Upload(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleCustomer}, property.ID,
		[]UploadFile{{Name: "a.png", Contents: bytes.NewReader(pngHeader)}})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestService_UploadPhotographerAllowedAnywhere(t *testing.T) {
	property := testProperty(uuid.New())
	svc := newMediaService(&fakeRepository{}, &fakePropertyDirectory{property: property}, &fakeAdminDirectory{}, &fakeStore{})

	result, _, err := svc.Upload(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRolePhotographer}, property.ID,
		[]UploadFile{{Name: "a.png", Contents: bytes.NewReader(pngHeader)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Uploaded) != 1 {
		t.Fatalf("expected 1 accepted file, got %+v", result)
	}
}

func TestService_UploadMissingProperty(t *testing.T) {
	svc := newMediaService(&fakeRepository{}, &fakePropertyDirectory{}, &fakeAdminDirectory{}, &fakeStore{})
	_, _, err := svc.Upload(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}, uuid.New(),
		[]UploadFile{{Name: "a.png", Contents: bytes.NewReader(pngHeader)}})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_ApproveIsIdempotent(t *testing.T) {
	ownerID := uuid.New()
	property := testProperty(ownerID)
	uploader := uuid.New()
	row := &models.Media{
		ID:             uuid.New(),
		PropertyID:     property.ID,
		UploadedBy:     uploader,
		ApprovalStatus: enums.ApprovalStatusPending,
	}

	updates := 0
	repo := &fakeRepository{
		getByIDFn: func(_ context.Context, _ uuid.UUID) (*models.Media, error) {
			copied := *row
			return &copied, nil
		},
		updateApprovalFn: func(_ context.Context, _ uuid.UUID, status enums.ApprovalStatus) error {
			updates++
			row.ApprovalStatus = status
			return nil
		},
	}
	svc := newMediaService(repo, &fakePropertyDirectory{property: property}, &fakeAdminDirectory{}, &fakeStore{})
	admin := authz.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}

	first, firstEvents, err := svc.Approve(context.Background(), admin, row.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ApprovalStatus != enums.ApprovalStatusApproved {
		t.Fatalf("expected approved, got %s", first.ApprovalStatus)
	}
	if len(firstEvents.Audits()) != 1 || len(firstEvents.Notices()) != 2 {
		t.Fatalf("expected audit + uploader/owner notices, got %d/%d",
			len(firstEvents.Audits()), len(firstEvents.Notices()))
	}

	second, secondEvents, err := svc.Approve(context.Background(), admin, row.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ApprovalStatus != enums.ApprovalStatusApproved {
		t.Fatalf("expected approved, got %s", second.ApprovalStatus)
	}
	if !secondEvents.Empty() {
		t.Error("second approval must not emit duplicate audit/notify")
	}
	if updates != 1 {
		t.Errorf("expected a single status write, got %d", updates)
	}
}

func TestService_RejectReappliesAndDeduplicatesNotices(t *testing.T) {
	partyID := uuid.New()
	property := testProperty(partyID)
	row := &models.Media{
		ID:             uuid.New(),
		PropertyID:     property.ID,
		UploadedBy:     partyID, // uploader is also the owner
		ApprovalStatus: enums.ApprovalStatusRejected,
	}
	updates := 0
	repo := &fakeRepository{
		getByIDFn: func(_ context.Context, _ uuid.UUID) (*models.Media, error) {
			copied := *row
			return &copied, nil
		},
		updateApprovalFn: func(_ context.Context, _ uuid.UUID, _ enums.ApprovalStatus) error {
			updates++
			return nil
		},
	}
	svc := newMediaService(repo, &fakePropertyDirectory{property: property}, &fakeAdminDirectory{}, &fakeStore{})

	_, list, err := svc.Reject(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}, row.ID, "blurry")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updates != 1 {
		t.Error("reject must re-apply even when already rejected")
	}
	if len(list.Notices()) != 1 {
		t.Errorf("uploader doubling as owner must get one notice, got %d", len(list.Notices()))
	}
}

func TestService_ModerationRequiresAdmin(t *testing.T) {
	ownerID := uuid.New()
	property := testProperty(ownerID)
	row := &models.Media{ID: uuid.New(), PropertyID: property.ID, ApprovalStatus: enums.ApprovalStatusPending}
	repo := &fakeRepository{
		getByIDFn: func(_ context.Context, _ uuid.UUID) (*models.Media, error) {
			return row, nil
		},
	}
	svc := newMediaService(repo, &fakePropertyDirectory{property: property}, &fakeAdminDirectory{}, &fakeStore{})

	_, _, err := svc.Approve(context.Background(), authz.Actor{ID: ownerID, Role: enums.UserRoleOwner}, row.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestService_ApproveMissingMediaIs404BeforeRoleCheck(t *testing.T) {
	svc := newMediaService(&fakeRepository{}, &fakePropertyDirectory{}, &fakeAdminDirectory{}, &fakeStore{})
	_, _, err := svc.Approve(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleCustomer}, uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_SoftDeleteByOwningBroker(t *testing.T) {
	brokerID := uuid.New()
	property := testProperty(uuid.New())
	property.BrokerID = &brokerID
	row := &models.Media{ID: uuid.New(), PropertyID: property.ID, ApprovalStatus: enums.ApprovalStatusApproved}
	repo := &fakeRepository{
		getByIDFn: func(_ context.Context, _ uuid.UUID) (*models.Media, error) {
			return row, nil
		},
	}
	svc := newMediaService(repo, &fakePropertyDirectory{property: property}, &fakeAdminDirectory{}, &fakeStore{})

	list, err := svc.SoftDelete(context.Background(), authz.Actor{ID: brokerID, Role: enums.UserRoleBroker}, row.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Audits()) != 1 || list.Audits()[0].Action != "media.deleted" {
		t.Errorf("unexpected events: %+v", list.Audits())
	}
}

func TestService_ListPublicMissingProperty(t *testing.T) {
	svc := newMediaService(&fakeRepository{}, &fakePropertyDirectory{}, &fakeAdminDirectory{}, &fakeStore{})
	_, err := svc.ListPublic(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
