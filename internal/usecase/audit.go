package usecase

import (
	"context"
	"encoding/json"

	"kariakita/internal/domain/model"
	repo "kariakita/internal/repository"
)

// 管理者操作の監査ログを残す。
// 本体の更新は保存済みなので、ログの保存失敗は警告だけにする。
type auditRecorder struct {
	repo  repo.AuditLogRepository
	idGen IDGenerator
	clock Clock
	log   Logger
}

func (a *auditRecorder) record(ctx context.Context, actor string, action model.AuditAction, rt model.AuditResourceType, resourceID string, before, after interface{}) {
	if a == nil || a.repo == nil {
		return
	}
	entry := model.AuditLog{
		ID:           a.idGen.NewID(),
		Actor:        actor,
		Action:       action,
		ResourceType: rt,
		ResourceID:   resourceID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    a.clock.Now(),
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		a.log.Warnf("audit log %s %s/%s not saved: %v", action, rt, resourceID, err)
	}
}

func toJSON(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// 監査ログの参照（管理画面）
type AuditUsecase struct {
	repo repo.AuditLogRepository
}

func NewAuditUsecase(r repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{repo: r}
}

func (u *AuditUsecase) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if f.Limit < 0 || f.Limit > 200 {
		return nil, validationError("invalid limit")
	}
	if f.Offset < 0 {
		return nil, validationError("invalid offset")
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return nil, validationError("from must be <= to")
	}
	logs, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, storageError("load audit logs", err)
	}
	return logs, nil
}
