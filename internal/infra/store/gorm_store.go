package store

import (
	"context"
	"errors"
	"time"

	"kariakita/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documents テーブルに key ごとの JSON を保存する
type GormDocumentStore struct {
	db  *gorm.DB
	now func() time.Time
}

// DI
func NewGormDocumentStore(db *gorm.DB) *GormDocumentStore {
	return &GormDocumentStore{db: db, now: time.Now}
}

func (s *GormDocumentStore) Migrate() error {
	return s.db.AutoMigrate(&model.Document{})
}

func (s *GormDocumentStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var d model.Document
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(d.Body), true, nil
}

// 同じkeyがあれば上書き
func (s *GormDocumentStore) Save(ctx context.Context, key string, doc []byte) error {
	d := model.Document{
		Key:       key,
		Body:      string(doc),
		UpdatedAt: s.now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&d).Error
}
