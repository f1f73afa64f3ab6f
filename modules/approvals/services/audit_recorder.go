package services

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lumen-rp/cadhub/modules/logging/domain/entities/auditlog"
)

// AuditRecorder appends audit entries as a best-effort side effect. Record
// never blocks and never fails the calling transition: entries are handed to a
// background writer through a bounded queue, and a full queue or a failed
// write is logged distinctly and dropped.
type AuditRecorder struct {
	repo    auditlog.Repository
	log     *logrus.Logger
	queue   chan *auditlog.Entry
	baseCtx context.Context

	closeOnce sync.Once
	done      chan struct{}
}

// NewAuditRecorder starts the background writer. baseCtx must carry the
// database pool; it outlives individual requests.
func NewAuditRecorder(baseCtx context.Context, repo auditlog.Repository, log *logrus.Logger, queueSize int) *AuditRecorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	r := &AuditRecorder{
		repo:    repo,
		log:     log,
		queue:   make(chan *auditlog.Entry, queueSize),
		baseCtx: baseCtx,
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *AuditRecorder) run() {
	defer close(r.done)
	for entry := range r.queue {
		if err := r.repo.Create(r.baseCtx, entry); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{
				"component":   "audit",
				"action_type": entry.ActionType,
				"executor_id": entry.ExecutorID,
			}).Error("audit entry write failed")
		}
	}
}

// Record enqueues an entry without blocking. Dropped entries are logged.
func (r *AuditRecorder) Record(entry *auditlog.Entry) {
	select {
	case r.queue <- entry:
	default:
		r.log.WithFields(logrus.Fields{
			"component":   "audit",
			"action_type": entry.ActionType,
		}).Error("audit queue full, entry dropped")
	}
}

// Close drains the queue and stops the writer.
func (r *AuditRecorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
	})
	<-r.done
}
