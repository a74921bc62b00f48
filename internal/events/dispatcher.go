package events

import (
	"context"

	"go.uber.org/multierr"

	"github.com/jubahomez/jubahomez-backend/pkg/logger"
)

// AuditWriter persists one audit entry.
type AuditWriter interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// NoticeWriter persists one inbox notice.
type NoticeWriter interface {
	Deliver(ctx context.Context, notice Notice) error
}

// Dispatcher applies a post-commit event list. Failures are aggregated,
// logged, and swallowed; the primary mutation has already committed and its
// success never depends on side-effect delivery.
type Dispatcher struct {
	audits  AuditWriter
	notices NoticeWriter
	logg    *logger.Logger
}

func NewDispatcher(audits AuditWriter, notices NoticeWriter, logg *logger.Logger) *Dispatcher {
	return &Dispatcher{
		audits:  audits,
		notices: notices,
		logg:    logg,
	}
}

// Dispatch writes audit entries first, then notices. It keeps going past
// individual failures so one bad row cannot starve the rest.
func (d *Dispatcher) Dispatch(ctx context.Context, list *List) {
	if d == nil || list == nil || list.Empty() {
		return
	}

	var errs error
	if d.audits != nil {
		for _, entry := range list.Audits() {
			if err := d.audits.Record(ctx, entry); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}
	if d.notices != nil {
		for _, notice := range list.Notices() {
			if err := d.notices.Deliver(ctx, notice); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}

	if errs != nil && d.logg != nil {
		ctx = d.logg.WithField(ctx, "event_failures", len(multierr.Errors(errs)))
		d.logg.Error(ctx, "events.dispatch_partial", errs)
	}
}
