package repository

import (
	"context"

	"kariakita/internal/domain/model"
	repo "kariakita/internal/repository"
)

type productStoreRepository struct {
	c *jsonCollection[model.Product]
}

// DI
func NewProductRepository(store repo.DocumentStore, log Logger) repo.ProductRepository {
	return &productStoreRepository{
		c: newJSONCollection(store, model.KeyProducts, validateProducts, nil, log),
	}
}

func validateProducts(items []model.Product) error {
	return validateEach(items, func(p model.Product) string { return p.ID }, model.Product.Validate)
}

func (r *productStoreRepository) LoadAll(ctx context.Context) ([]model.Product, error) {
	return r.c.load(ctx)
}

func (r *productStoreRepository) SaveAll(ctx context.Context, products []model.Product) error {
	return r.c.save(ctx, products)
}
