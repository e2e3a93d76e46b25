package repository

import (
	"context"

	"kariakita/internal/domain/model"
)

type OrderRepository interface {
	LoadAll(ctx context.Context) ([]model.Order, error)
	SaveAll(ctx context.Context, orders []model.Order) error
}
