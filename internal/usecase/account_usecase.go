package usecase

import (
	"context"
	"strings"
	"sync"

	"kariakita/internal/domain/model"
	repo "kariakita/internal/repository"
	"kariakita/internal/validator"
)

// 会員一覧と状態（有効/停止）。状態が変わるのは SetStatus だけ。
type AccountUsecase struct {
	mu          sync.Mutex
	userRepo    repo.UserRepository
	adminEmails map[string]struct{}
	audit       *auditRecorder
	idGen       IDGenerator
	clock       Clock
}

func NewAccountUsecase(
	userRepo repo.UserRepository,
	auditRepo repo.AuditLogRepository,
	adminEmails []string,
	idGen IDGenerator,
	clock Clock,
	log Logger,
) *AccountUsecase {
	if log == nil {
		log = nopLogger{}
	}
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &AccountUsecase{
		userRepo:    userRepo,
		adminEmails: admins,
		audit:       &auditRecorder{repo: auditRepo, idGen: idGen, clock: clock, log: log},
		idGen:       idGen,
		clock:       clock,
	}
}

// 会員一覧の絞り込み（空は条件なし）
type AccountFilter struct {
	Status model.AccountStatus
	Role   model.Role
	Query  string
}

// 簡易ログイン（パスワードなし）。
// メールが既存ならその会員、無ければ新規登録。ADMIN_EMAILS に入っていれば admin。
func (u *AccountUsecase) SignIn(ctx context.Context, name string, email string) (model.User, error) {
	if !validator.IsEmailLike(email) {
		return model.User{}, validationError("invalid email")
	}
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.userRepo.LoadAll(ctx)
	if err != nil {
		return model.User{}, storageError("load users", err)
	}

	key := normalizeEmail(email)
	for _, existing := range users {
		if normalizeEmail(existing.Email) != key {
			continue
		}
		//停止ユーザーはログイン不可
		if !existing.IsActive() {
			return model.User{}, newError(ErrInvalidState, "account is suspended")
		}
		return existing, nil
	}

	role := model.RoleUser
	if _, ok := u.adminEmails[key]; ok {
		role = model.RoleAdmin
	}
	created := model.User{
		ID:       u.idGen.NewID(),
		Name:     name,
		Email:    email,
		Role:     role,
		JoinedAt: u.clock.Now(),
		Status:   model.AccountStatusActive,
	}

	next := make([]model.User, 0, len(users)+1)
	next = append(next, users...)
	next = append(next, created)
	if err := u.userRepo.SaveAll(ctx, next); err != nil {
		return model.User{}, storageError("save users", err)
	}
	return created, nil
}

// 状態変更。同じ状態への変更は何もせず成功。
func (u *AccountUsecase) SetStatus(ctx context.Context, actor string, userID string, status model.AccountStatus) (model.User, error) {
	if !status.Valid() {
		return model.User{}, validationError("invalid status %q", status)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.userRepo.LoadAll(ctx)
	if err != nil {
		return model.User{}, storageError("load users", err)
	}
	idx := indexOfUser(users, userID)
	if idx < 0 {
		return model.User{}, notFoundError("user not found")
	}

	cur := users[idx]
	if cur.Status == status {
		return cur, nil
	}

	updated := cur
	updated.Status = status
	next := make([]model.User, len(users))
	copy(next, users)
	next[idx] = updated
	if err := u.userRepo.SaveAll(ctx, next); err != nil {
		return model.User{}, storageError("save users", err)
	}

	u.audit.record(ctx, actor, model.AuditActionUpdateUserStatus, model.AuditResourceUser, userID,
		statusJSON(string(cur.Status)), statusJSON(string(status)))
	return updated, nil
}

func (u *AccountUsecase) FindByID(ctx context.Context, id string) (model.User, error) {
	users, err := u.userRepo.LoadAll(ctx)
	if err != nil {
		return model.User{}, storageError("load users", err)
	}
	idx := indexOfUser(users, id)
	if idx < 0 {
		return model.User{}, notFoundError("user not found")
	}
	return users[idx], nil
}

func (u *AccountUsecase) List(ctx context.Context, f AccountFilter) ([]model.User, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, validationError("invalid status %q", f.Status)
	}
	if f.Role != "" && !f.Role.Valid() {
		return nil, validationError("invalid role %q", f.Role)
	}

	users, err := u.userRepo.LoadAll(ctx)
	if err != nil {
		return nil, storageError("load users", err)
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]model.User, 0, len(users))
	for _, usr := range users {
		if f.Status != "" && usr.Status != f.Status {
			continue
		}
		if f.Role != "" && usr.Role != f.Role {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(usr.Name), q) && !strings.Contains(strings.ToLower(usr.Email), q) {
			continue
		}
		out = append(out, usr)
	}
	return out, nil
}

func indexOfUser(users []model.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
