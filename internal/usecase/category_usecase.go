package usecase

import (
	"context"
	"strings"
	"sync"

	repo "kariakita/internal/repository"
	"kariakita/internal/validator"
)

// 出品カテゴリの管理（管理画面）
type CategoryUsecase struct {
	mu   sync.Mutex
	repo repo.CategoryRepository
}

func NewCategoryUsecase(r repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{repo: r}
}

func (u *CategoryUsecase) List(ctx context.Context) ([]string, error) {
	categories, err := u.repo.LoadAll(ctx)
	if err != nil {
		return nil, storageError("load categories", err)
	}
	return categories, nil
}

// 追加。大文字小文字は区別する（"Books" と "books" は別）。
func (u *CategoryUsecase) Add(ctx context.Context, name string) ([]string, error) {
	if validator.Blank(name) {
		return nil, validationError("category name required")
	}
	name = strings.TrimSpace(name)

	u.mu.Lock()
	defer u.mu.Unlock()

	categories, err := u.repo.LoadAll(ctx)
	if err != nil {
		return nil, storageError("load categories", err)
	}
	for _, c := range categories {
		if c == name {
			return nil, validationError("category %q already exists", name)
		}
	}

	next := make([]string, 0, len(categories)+1)
	next = append(next, categories...)
	next = append(next, name)
	if err := u.repo.SaveAll(ctx, next); err != nil {
		return nil, storageError("save categories", err)
	}
	return next, nil
}

// 削除。既存商品のカテゴリはそのまま残る。
func (u *CategoryUsecase) Remove(ctx context.Context, name string) ([]string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	categories, err := u.repo.LoadAll(ctx)
	if err != nil {
		return nil, storageError("load categories", err)
	}

	next := make([]string, 0, len(categories))
	found := false
	for _, c := range categories {
		if c == name {
			found = true
			continue
		}
		next = append(next, c)
	}
	if !found {
		return nil, notFoundError("category %q not found", name)
	}
	if err := u.repo.SaveAll(ctx, next); err != nil {
		return nil, storageError("save categories", err)
	}
	return next, nil
}
