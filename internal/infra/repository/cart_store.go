package repository

import (
	"context"
	"fmt"

	"kariakita/internal/domain/model"
	repo "kariakita/internal/repository"
)

// cart:<session_id> ごとに明細配列を保存する
type cartStoreRepository struct {
	store repo.DocumentStore
	log   Logger
}

func NewCartRepository(store repo.DocumentStore, log Logger) repo.CartRepository {
	if log == nil {
		log = nopLogger{}
	}
	return &cartStoreRepository{store: store, log: log}
}

func validateCartItems(items []model.CartItem) error {
	if len(items) > model.MaxCartLines {
		return fmt.Errorf("cart has %d lines, max %d", len(items), model.MaxCartLines)
	}
	return validateEach(items, func(it model.CartItem) string { return it.ProductID }, model.CartItem.Validate)
}

func (r *cartStoreRepository) collection(sessionID string) *jsonCollection[model.CartItem] {
	return newJSONCollection(r.store, model.CartKey(sessionID), validateCartItems, nil, r.log)
}

func (r *cartStoreRepository) Load(ctx context.Context, sessionID string) (model.Cart, error) {
	items, err := r.collection(sessionID).load(ctx)
	if err != nil {
		return model.Cart{}, err
	}
	return model.Cart{SessionID: sessionID, Items: items}, nil
}

func (r *cartStoreRepository) Save(ctx context.Context, cart model.Cart) error {
	return r.collection(cart.SessionID).save(ctx, cart.Items)
}
