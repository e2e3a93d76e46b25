package repository

import (
	"context"

	"kariakita/internal/domain/model"
)

// 会員一覧の保存・取得を約束
type UserRepository interface {
	LoadAll(ctx context.Context) ([]model.User, error)
	SaveAll(ctx context.Context, users []model.User) error
}
