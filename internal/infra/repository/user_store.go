package repository

import (
	"context"
	"fmt"
	"strings"

	"kariakita/internal/domain/model"
	repo "kariakita/internal/repository"
)

type userStoreRepository struct {
	c *jsonCollection[model.User]
}

func NewUserRepository(store repo.DocumentStore, log Logger) repo.UserRepository {
	return &userStoreRepository{
		c: newJSONCollection(store, model.KeyUsers, validateUsers, nil, log),
	}
}

// emailも重複不可
func validateUsers(items []model.User) error {
	if err := validateEach(items, func(u model.User) string { return u.ID }, model.User.Validate); err != nil {
		return err
	}
	emails := make(map[string]struct{}, len(items))
	for i, u := range items {
		e := strings.ToLower(strings.TrimSpace(u.Email))
		if _, dup := emails[e]; dup {
			return fmt.Errorf("item %d: duplicate email", i)
		}
		emails[e] = struct{}{}
	}
	return nil
}

func (r *userStoreRepository) LoadAll(ctx context.Context) ([]model.User, error) {
	return r.c.load(ctx)
}

func (r *userStoreRepository) SaveAll(ctx context.Context, users []model.User) error {
	return r.c.save(ctx, users)
}
