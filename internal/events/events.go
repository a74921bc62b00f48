package events

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// AuditEntry records who did what to which entity.
type AuditEntry struct {
	ActorID    *uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	Meta       map[string]any
}

// Notice is an inbox message for one user.
type Notice struct {
	UserID  uuid.UUID
	Type    enums.NotificationType
	Title   string
	Message string
	RefType string
	RefID   *uuid.UUID
}

// List is the ordered set of side effects a workflow operation produced.
// Audit entries are dispatched before notices so the audit trail preserves
// causal ordering.
type List struct {
	audits  []AuditEntry
	notices []Notice
	noticed map[uuid.UUID]struct{}
}

func NewList() *List {
	return &List{noticed: make(map[uuid.UUID]struct{})}
}

// Audit appends an audit entry.
func (l *List) Audit(entry AuditEntry) *List {
	l.audits = append(l.audits, entry)
	return l
}

// Notify appends a notice. A zero-value List is usable; the dedup set is
// initialized on first use.
func (l *List) Notify(notice Notice) *List {
	if l.noticed == nil {
		l.noticed = make(map[uuid.UUID]struct{})
	}
	l.notices = append(l.notices, notice)
	l.noticed[notice.UserID] = struct{}{}
	return l
}

// NotifyOnce appends a notice unless this list already targets the user,
// deduplicating fan-outs where one person wears several hats.
func (l *List) NotifyOnce(notice Notice) *List {
	if _, seen := l.noticed[notice.UserID]; seen {
		return l
	}
	return l.Notify(notice)
}

// Audits returns the audit entries in append order.
func (l *List) Audits() []AuditEntry { return l.audits }

// Notices returns the notices in append order.
func (l *List) Notices() []Notice { return l.notices }

// Empty reports whether the list carries no side effects.
func (l *List) Empty() bool { return len(l.audits) == 0 && len(l.notices) == 0 }

// MarshalMeta renders audit metadata for storage; nil when there is none.
func MarshalMeta(meta map[string]any) *string {
	if len(meta) == 0 {
		return nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}
