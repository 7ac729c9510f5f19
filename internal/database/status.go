package repository

import (
	"context"
	"fmt"

	"InstaCatalog/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) SaveStatus(ctx context.Context, status entity.StatusRecord) error {
	collection := m.db().Collection(statusesCollection)
	filter := bson.D{{Key: "username", Value: status.Username}}
	update := bson.M{"$set": status}

	_, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert error: %w", err)
	}
	return nil
}

func (m *MongoDB) GetStatus(ctx context.Context, username string) (*entity.StatusRecord, error) {
	collection := m.db().Collection(statusesCollection)

	var status entity.StatusRecord
	if err := collection.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&status); err != nil {
		return nil, m.findError(err)
	}
	return &status, nil
}

func (m *MongoDB) ListStatuses(ctx context.Context) ([]entity.StatusRecord, error) {
	collection := m.db().Collection(statusesCollection)

	cursor, err := collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var statuses []entity.StatusRecord
	if err = cursor.All(ctx, &statuses); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return statuses, nil
}
