package repository

import (
	"context"

	"kariakita/internal/domain/model"
	repo "kariakita/internal/repository"
)

type auditLogStoreRepository struct {
	c *jsonCollection[model.AuditLog]
}

func NewAuditLogRepository(store repo.DocumentStore, log Logger) repo.AuditLogRepository {
	return &auditLogStoreRepository{
		c: newJSONCollection[model.AuditLog](store, model.KeyAuditLogs, nil, nil, log),
	}
}

func (r *auditLogStoreRepository) Create(ctx context.Context, log model.AuditLog) error {
	logs, err := r.c.load(ctx)
	if err != nil {
		return err
	}
	return r.c.save(ctx, append(logs, log))
}

func (r *auditLogStoreRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs, err := r.c.load(ctx)
	if err != nil {
		return nil, err
	}

	// limit/offset
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	//新しい順
	out := make([]model.AuditLog, 0, limit)
	skipped := 0
	for i := len(logs) - 1; i >= 0 && len(out) < limit; i-- {
		l := logs[i]
		if !matchAudit(l, filter) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func matchAudit(l model.AuditLog, f repo.AuditLogFilter) bool {
	if f.Actor != "" && l.Actor != f.Actor {
		return false
	}
	if f.Action != nil && l.Action != *f.Action {
		return false
	}
	if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
		return false
	}
	if f.ResourceID != "" && l.ResourceID != f.ResourceID {
		return false
	}
	if f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}
