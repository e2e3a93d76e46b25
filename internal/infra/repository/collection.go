package repository

import (
	"context"
	"encoding/json"
	"fmt"

	repo "kariakita/internal/repository"
)

// 壊れたドキュメントを読んだときの警告先（gommon の *log.Logger など）
type Logger interface {
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}

// 1つのkeyにJSON配列として保存するコレクション。
// 読み込み時にJSON不正・スキーマ不正なら既定値を返す（ログだけ出してエラーにしない）。
type jsonCollection[T any] struct {
	store    repo.DocumentStore
	key      string
	validate func(items []T) error
	defaults func() []T
	log      Logger
}

func newJSONCollection[T any](store repo.DocumentStore, key string, validate func([]T) error, defaults func() []T, log Logger) *jsonCollection[T] {
	if log == nil {
		log = nopLogger{}
	}
	if defaults == nil {
		defaults = func() []T { return []T{} }
	}
	return &jsonCollection[T]{
		store:    store,
		key:      key,
		validate: validate,
		defaults: defaults,
		log:      log,
	}
}

func (c *jsonCollection[T]) load(ctx context.Context) ([]T, error) {
	raw, found, err := c.store.Load(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	if !found {
		return c.defaults(), nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.Warnf("document %q is not valid JSON, using default: %v", c.key, err)
		return c.defaults(), nil
	}
	if items == nil {
		// "null" は空扱い
		items = []T{}
	}
	if c.validate != nil {
		if err := c.validate(items); err != nil {
			c.log.Warnf("document %q failed validation, using default: %v", c.key, err)
			return c.defaults(), nil
		}
	}
	return items, nil
}

func (c *jsonCollection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Save(ctx, c.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}

// 各要素の Validate と ID 重複をまとめてチェックする
func validateEach[T any](items []T, id func(T) string, check func(T) error) error {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if err := check(it); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		k := id(it)
		if _, dup := seen[k]; dup {
			return fmt.Errorf("item %d: duplicate id %q", i, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}
