package store

import (
	"context"
	"errors"
	"time"

	"kariakita/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "documents"

// MongoDB の documents コレクションに key(_id) ごとの JSON を保存する
type MongoDocumentStore struct {
	docs *mongo.Collection
	now  func() time.Time
}

func NewMongoDocumentStore(client *mongo.Client, database string) *MongoDocumentStore {
	return &MongoDocumentStore{
		docs: client.Database(database).Collection(mongoCollection),
		now:  time.Now,
	}
}

func (s *MongoDocumentStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var d model.Document
	err := s.docs.FindOne(ctx, bson.M{"_id": key}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(d.Body), true, nil
}

func (s *MongoDocumentStore) Save(ctx context.Context, key string, doc []byte) error {
	update := bson.M{
		"$set": bson.M{
			"body":       string(doc),
			"updated_at": s.now(),
		},
	}
	_, err := s.docs.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	return err
}
