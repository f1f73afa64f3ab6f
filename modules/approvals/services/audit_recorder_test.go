package services

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/lumen-rp/cadhub/modules/logging/domain/entities/auditlog"
)

type memAuditLog struct {
	mu      sync.Mutex
	entries []*auditlog.Entry
}

func (m *memAuditLog) Create(_ context.Context, entry *auditlog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memAuditLog) List(_ context.Context, _ *auditlog.FindParams) ([]*auditlog.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*auditlog.Entry(nil), m.entries...), nil
}

func (m *memAuditLog) Count(_ context.Context, _ *auditlog.FindParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.entries)), nil
}

func TestAuditRecorder_CloseDrainsQueue(t *testing.T) {
	repo := &memAuditLog{}
	rec := NewAuditRecorder(context.Background(), repo, logrus.New(), 16)

	for i := 0; i < 5; i++ {
		rec.Record(&auditlog.Entry{ActionType: auditlog.ActionWarrantAccepted})
	}
	rec.Close()

	entries, err := repo.List(context.Background(), nil)
	assert.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestAuditRecorder_CloseIsIdempotent(t *testing.T) {
	rec := NewAuditRecorder(context.Background(), &memAuditLog{}, logrus.New(), 4)
	rec.Close()
	rec.Close()
}
