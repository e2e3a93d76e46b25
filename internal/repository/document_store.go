package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// key→JSONドキュメントの保存先（postgres / mongo / メモリ）
type DocumentStore interface {
	// 無ければ found=false（エラーではない）
	Load(ctx context.Context, key string) (doc []byte, found bool, err error)
	Save(ctx context.Context, key string, doc []byte) error
}
