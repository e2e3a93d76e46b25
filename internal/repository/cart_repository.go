package repository

import (
	"context"

	"kariakita/internal/domain/model"
)

// セッションごとのカート明細
type CartRepository interface {
	Load(ctx context.Context, sessionID string) (model.Cart, error)
	Save(ctx context.Context, cart model.Cart) error
}
