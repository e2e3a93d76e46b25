package store

import (
	"context"
	"sync"
)

// テスト・開発用のメモリ保存
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: map[string][]byte{}}
}

func (s *MemoryDocumentStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, true, nil
}

func (s *MemoryDocumentStore) Save(ctx context.Context, key string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(doc))
	copy(cp, doc)
	s.docs[key] = cp
	return nil
}

// 生のドキュメントを書き込む（壊れたデータのテスト用）
func (s *MemoryDocumentStore) Put(key string, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = []byte(raw)
}

func (s *MemoryDocumentStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	return keys
}
