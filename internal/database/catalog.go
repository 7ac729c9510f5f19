package repository

import (
	"context"
	"fmt"

	"InstaCatalog/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) SaveCatalog(ctx context.Context, catalog *entity.Catalog) error {
	collection := m.db().Collection(catalogsCollection)
	filter := bson.D{{Key: "username", Value: catalog.Username}}
	update := bson.M{"$set": catalog}

	_, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert error: %w", err)
	}
	return nil
}

func (m *MongoDB) GetCatalog(ctx context.Context, username string) (*entity.Catalog, error) {
	collection := m.db().Collection(catalogsCollection)
	filter := bson.D{{Key: "username", Value: username}}

	var catalog entity.Catalog
	if err := collection.FindOne(ctx, filter).Decode(&catalog); err != nil {
		return nil, m.findError(err)
	}
	return &catalog, nil
}

func (m *MongoDB) ListCatalogs(ctx context.Context) ([]entity.CatalogSummary, error) {
	collection := m.db().Collection(catalogsCollection)
	opts := options.Find().
		SetSort(bson.D{{Key: "generated_at", Value: -1}}).
		SetProjection(bson.D{{Key: "palette", Value: 0}, {Key: "bio", Value: 0}})

	cursor, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var catalogs []entity.Catalog
	if err = cursor.All(ctx, &catalogs); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}

	list := make([]entity.CatalogSummary, 0, len(catalogs))
	for i := range catalogs {
		list = append(list, catalogs[i].Summary())
	}
	return list, nil
}

// DeleteCatalog removes the catalog document and its rendered site.
func (m *MongoDB) DeleteCatalog(ctx context.Context, username string) error {
	collection := m.db().Collection(catalogsCollection)
	res, err := collection.DeleteOne(ctx, bson.D{{Key: "username", Value: username}})
	if err != nil {
		return fmt.Errorf("mongodb delete error: %w", err)
	}

	removed, err := m.deleteSite(ctx, username)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 && removed == 0 {
		return ErrNotFound
	}
	return nil
}
