package repository

import (
	"context"

	"kariakita/internal/domain/model"
	repo "kariakita/internal/repository"
)

type orderStoreRepository struct {
	c *jsonCollection[model.Order]
}

func NewOrderRepository(store repo.DocumentStore, log Logger) repo.OrderRepository {
	return &orderStoreRepository{
		c: newJSONCollection(store, model.KeyOrders, validateOrders, nil, log),
	}
}

func validateOrders(items []model.Order) error {
	return validateEach(items, func(o model.Order) string { return o.ID }, model.Order.Validate)
}

func (r *orderStoreRepository) LoadAll(ctx context.Context) ([]model.Order, error) {
	return r.c.load(ctx)
}

func (r *orderStoreRepository) SaveAll(ctx context.Context, orders []model.Order) error {
	return r.c.save(ctx, orders)
}
