package analytics

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
	events        []*models.AnalyticsEvent
	viewCounts    map[uuid.UUID]int64
	inquiryCounts map[uuid.UUID]int64
	seenIDs       []uuid.UUID
}

func (f *fakeRepository) Create(ctx context.Context, event *models.AnalyticsEvent) error {
	event.ID = uuid.New()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeRepository) CountEvents(ctx context.Context, eventType string, propertyIDs []uuid.UUID, from, to *time.Time) (int64, error) {
	f.seenIDs = propertyIDs
	var total int64
	for _, id := range propertyIDs {
		total += f.viewCounts[id]
	}
	return total, nil
}

func (f *fakeRepository) CountInquiries(ctx context.Context, propertyIDs []uuid.UUID, from, to *time.Time) (int64, error) {
	var total int64
	for _, id := range propertyIDs {
		total += f.inquiryCounts[id]
	}
	return total, nil
}

type fakePropertyDirectory struct {
	property   *models.Property
	partyProps []models.Property
	allProps   []models.Property
}

func (f *fakePropertyDirectory) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	if f.property != nil && f.property.ID == id {
		return f.property, nil
	}
	return nil, nil
}

func (f *fakePropertyDirectory) ListForParty(ctx context.Context, userID uuid.UUID) ([]models.Property, error) {
	return f.partyProps, nil
}

func (f *fakePropertyDirectory) ListAll(ctx context.Context) ([]models.Property, error) {
	return f.allProps, nil
}

type fakeViewingCounter struct {
	counts map[uuid.UUID]int64
}

func (f *fakeViewingCounter) CountForProperties(ctx context.Context, propertyIDs []uuid.UUID, from, to *time.Time) (int64, error) {
	var total int64
	for _, id := range propertyIDs {
		total += f.counts[id]
	}
	return total, nil
}

func newStatsService(repo Repository, dir PropertyDirectory, counter ViewingCounter) Service {
	svc, _ := NewService(repo, dir, counter)
	return svc
}

func TestService_TrackEventAnonymous(t *testing.T) {
	repo := &fakeRepository{}
	svc := newStatsService(repo, &fakePropertyDirectory{}, &fakeViewingCounter{})

	propertyID := uuid.New()
	event, list, err := svc.TrackEvent(context.Background(), nil, TrackParams{
		Type:       " View ",
		PropertyID: &propertyID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Type != "view" {
		t.Errorf("expected normalized type, got %q", event.Type)
	}
	if event.UserID != nil {
		t.Error("anonymous event should carry no user id")
	}
	if len(repo.events) != 1 {
		t.Errorf("expected 1 stored event, got %d", len(repo.events))
	}
	if !list.Empty() {
		t.Error("anonymous tracking should produce no side effects")
	}
}

func TestService_TrackEventAuthenticatedAudits(t *testing.T) {
	repo := &fakeRepository{}
	svc := newStatsService(repo, &fakePropertyDirectory{}, &fakeViewingCounter{})

	actorID := uuid.New()
	propertyID := uuid.New()
	event, list, err := svc.TrackEvent(context.Background(), &actorID, TrackParams{
		Type:       "view",
		PropertyID: &propertyID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	audits := list.Audits()
	if len(audits) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audits))
	}
	entry := audits[0]
	if entry.Action != "analytics.event_tracked" {
		t.Errorf("unexpected action %q", entry.Action)
	}
	if entry.ActorID == nil || *entry.ActorID != actorID {
		t.Error("audit entry should carry the actor")
	}
	if entry.EntityID == nil || *entry.EntityID != event.ID {
		t.Error("audit entry should reference the stored event")
	}
	if len(list.Notices()) != 0 {
		t.Error("tracking should never notify anyone")
	}
}

func TestService_TrackEventRequiresType(t *testing.T) {
	svc := newStatsService(&fakeRepository{}, &fakePropertyDirectory{}, &fakeViewingCounter{})
	_, _, err := svc.TrackEvent(context.Background(), nil, TrackParams{Type: "  "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_PropertyStatsForParty(t *testing.T) {
	ownerID := uuid.New()
	property := &models.Property{ID: uuid.New(), OwnerID: &ownerID}
	repo := &fakeRepository{
		viewCounts:    map[uuid.UUID]int64{property.ID: 12},
		inquiryCounts: map[uuid.UUID]int64{property.ID: 3},
	}
	counter := &fakeViewingCounter{counts: map[uuid.UUID]int64{property.ID: 2}}
	svc := newStatsService(repo, &fakePropertyDirectory{property: property}, counter)

	stats, err := svc.PropertyStats(context.Background(), authz.Actor{ID: ownerID, Role: enums.UserRoleOwner}, property.ID, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Views != 12 || stats.Inquiries != 3 || stats.Viewings != 2 || stats.Properties != 1 {
		t.Errorf("unexpected aggregate: %+v", stats)
	}
	if len(repo.seenIDs) != 1 || repo.seenIDs[0] != property.ID {
		t.Errorf("expected view count scoped to the property, got %v", repo.seenIDs)
	}
}

func TestService_PropertyStatsStrangerForbidden(t *testing.T) {
	ownerID := uuid.New()
	property := &models.Property{ID: uuid.New(), OwnerID: &ownerID}
	svc := newStatsService(&fakeRepository{}, &fakePropertyDirectory{property: property}, &fakeViewingCounter{})

	_, err := svc.PropertyStats(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleOwner}, property.ID, nil, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestService_PropertyStatsMissing(t *testing.T) {
	svc := newStatsService(&fakeRepository{}, &fakePropertyDirectory{}, &fakeViewingCounter{})
	_, err := svc.PropertyStats(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}, uuid.New(), nil, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_MyPropertiesStatsPerProperty(t *testing.T) {
	brokerID := uuid.New()
	first := models.Property{ID: uuid.New(), Title: "Riverside flat"}
	second := models.Property{ID: uuid.New(), Title: "Hilltop villa"}
	repo := &fakeRepository{
		viewCounts:    map[uuid.UUID]int64{first.ID: 7, second.ID: 1},
		inquiryCounts: map[uuid.UUID]int64{first.ID: 2},
	}
	counter := &fakeViewingCounter{counts: map[uuid.UUID]int64{second.ID: 4}}
	dir := &fakePropertyDirectory{partyProps: []models.Property{first, second}}
	svc := newStatsService(repo, dir, counter)

	entries, err := svc.MyPropertiesStats(context.Background(), authz.Actor{ID: brokerID, Role: enums.UserRoleBroker}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected one row per property, got %d", len(entries))
	}
	if entries[0].PropertyID != first.ID || entries[0].Title != "Riverside flat" {
		t.Errorf("unexpected first row: %+v", entries[0])
	}
	if entries[0].Views != 7 || entries[0].Inquiries != 2 || entries[0].Viewings != 0 {
		t.Errorf("first row counters mixed across properties: %+v", entries[0])
	}
	if entries[1].Views != 1 || entries[1].Inquiries != 0 || entries[1].Viewings != 4 {
		t.Errorf("second row counters mixed across properties: %+v", entries[1])
	}
}

func TestService_MyPropertiesStatsScopesByRole(t *testing.T) {
	partyProps := []models.Property{{ID: uuid.New()}, {ID: uuid.New()}}
	allProps := []models.Property{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}}
	dir := &fakePropertyDirectory{partyProps: partyProps, allProps: allProps}
	svc := newStatsService(&fakeRepository{}, dir, &fakeViewingCounter{})

	entries, err := svc.MyPropertiesStats(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleBroker}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected broker's 2 rows, got %d", len(entries))
	}

	entries, err = svc.MyPropertiesStats(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("admin should get a row for every property, got %d", len(entries))
	}

	_, err = svc.MyPropertiesStats(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleCustomer}, nil, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for customer, got %v", err)
	}
}

func TestService_MyPropertiesStatsEmptyPortfolio(t *testing.T) {
	svc := newStatsService(&fakeRepository{}, &fakePropertyDirectory{}, &fakeViewingCounter{})

	entries, err := svc.MyPropertiesStats(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleOwner}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("empty portfolio should yield no rows, got %+v", entries)
	}
}

func TestService_StatsInvertedRange(t *testing.T) {
	svc := newStatsService(&fakeRepository{}, &fakePropertyDirectory{}, &fakeViewingCounter{})
	from := time.Now()
	to := from.Add(-time.Hour)
	_, err := svc.MyPropertiesStats(context.Background(), authz.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}, &from, &to)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
