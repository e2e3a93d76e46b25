package repository

import (
	"context"

	"kariakita/internal/domain/model"
)

// 商品コレクションをまるごと読み書きする約束。
// 壊れたデータは既定値に置き換えて返す（エラーにしない）。
type ProductRepository interface {
	LoadAll(ctx context.Context) ([]model.Product, error)
	SaveAll(ctx context.Context, products []model.Product) error
}

// カテゴリ一覧
type CategoryRepository interface {
	LoadAll(ctx context.Context) ([]string, error)
	SaveAll(ctx context.Context, categories []string) error
}
