package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kariakita/internal/domain/model"
	repo "kariakita/internal/repository"
)

// 初期カテゴリ
var DefaultCategories = []string{
	"Fashion & Pakaian",
	"Buku & Edukasi",
	"Furniture & Rumah",
}

type categoryStoreRepository struct {
	c *jsonCollection[string]
}

func NewCategoryRepository(store repo.DocumentStore, log Logger) repo.CategoryRepository {
	return &categoryStoreRepository{
		c: newJSONCollection(store, model.KeyCategories, ValidateCategories, defaultCategories, log),
	}
}

func defaultCategories() []string {
	out := make([]string, len(DefaultCategories))
	copy(out, DefaultCategories)
	return out
}

// 空文字なし・重複なし（大文字小文字は区別する）
func ValidateCategories(items []string) error {
	seen := make(map[string]struct{}, len(items))
	for i, c := range items {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("category %d: %w", i, errors.New("empty name"))
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("category %d: duplicate %q", i, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

func (r *categoryStoreRepository) LoadAll(ctx context.Context) ([]string, error) {
	return r.c.load(ctx)
}

func (r *categoryStoreRepository) SaveAll(ctx context.Context, categories []string) error {
	return r.c.save(ctx, categories)
}
