package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

type fakeAuditWriter struct {
	recorded []AuditEntry
	err      error
}

func (f *fakeAuditWriter) Record(_ context.Context, entry AuditEntry) error {
	f.recorded = append(f.recorded, entry)
	return f.err
}

type fakeNoticeWriter struct {
	delivered []Notice
	err       error
}

func (f *fakeNoticeWriter) Deliver(_ context.Context, notice Notice) error {
	f.delivered = append(f.delivered, notice)
	return f.err
}

func TestListNotifyOnceDeduplicates(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()

	list := NewList()
	list.NotifyOnce(Notice{UserID: userA, Type: enums.NotificationTypeApproval})
	list.NotifyOnce(Notice{UserID: userA, Type: enums.NotificationTypeApproval})
	list.NotifyOnce(Notice{UserID: userB, Type: enums.NotificationTypeApproval})

	if got := len(list.Notices()); got != 2 {
		t.Fatalf("expected 2 notices, got %d", got)
	}
	if list.Notices()[0].UserID != userA || list.Notices()[1].UserID != userB {
		t.Error("unexpected notice ordering")
	}
}

func TestListZeroValueNotify(t *testing.T) {
	var list List
	list.Notify(Notice{UserID: uuid.New(), Type: enums.NotificationTypeMessage})

	userID := uuid.New()
	list.NotifyOnce(Notice{UserID: userID, Type: enums.NotificationTypeMessage})
	list.NotifyOnce(Notice{UserID: userID, Type: enums.NotificationTypeMessage})

	if got := len(list.Notices()); got != 2 {
		t.Fatalf("expected 2 notices, got %d", got)
	}
}

func TestDispatcherOrdersAuditsBeforeNotices(t *testing.T) {
	audits := &fakeAuditWriter{}
	notices := &fakeNoticeWriter{}
	d := NewDispatcher(audits, notices, nil)

	list := NewList().
		Notify(Notice{UserID: uuid.New(), Type: enums.NotificationTypeViewing}).
		Audit(AuditEntry{Action: "viewing.cancelled", EntityType: "viewing"})

	d.Dispatch(context.Background(), list)

	if len(audits.recorded) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audits.recorded))
	}
	if len(notices.delivered) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(notices.delivered))
	}
}

func TestDispatcherKeepsGoingPastFailures(t *testing.T) {
	audits := &fakeAuditWriter{err: errors.New("audit down")}
	notices := &fakeNoticeWriter{}
	d := NewDispatcher(audits, notices, nil)

	list := NewList().
		Audit(AuditEntry{Action: "a"}).
		Audit(AuditEntry{Action: "b"}).
		Notify(Notice{UserID: uuid.New(), Type: enums.NotificationTypePhotoJob})

	d.Dispatch(context.Background(), list)

	if len(audits.recorded) != 2 {
		t.Fatalf("expected both audit attempts, got %d", len(audits.recorded))
	}
	if len(notices.delivered) != 1 {
		t.Fatalf("expected notice despite audit failures, got %d", len(notices.delivered))
	}
}

func TestDispatcherNilList(t *testing.T) {
	d := NewDispatcher(&fakeAuditWriter{}, &fakeNoticeWriter{}, nil)
	d.Dispatch(context.Background(), nil)
	d.Dispatch(context.Background(), NewList())
}

func TestMarshalMeta(t *testing.T) {
	if MarshalMeta(nil) != nil {
		t.Error("expected nil for empty meta")
	}
	got := MarshalMeta(map[string]any{"reason": "blurry"})
	if got == nil || *got != `{"reason":"blurry"}` {
		t.Errorf("unexpected meta payload: %v", got)
	}
}
