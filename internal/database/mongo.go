package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"InstaCatalog/internal/config"
	"InstaCatalog/internal/lib/sl"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	catalogsCollection = "catalogs"
	statusesCollection = "statuses"
	sitesBucket        = "sites"

	connectTimeout = 10 * time.Second
)

type MongoDB struct {
	client   *mongo.Client
	database string
	log      *slog.Logger
}

// NewMongoClient connects once and keeps the pool for the life of the process.
func NewMongoClient(conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri).SetConnectTimeout(connectTimeout)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping error: %w", err)
	}

	m := &MongoDB{
		client:   client,
		database: conf.Mongo.Database,
		log:      logger.With(sl.Module("mongodb")),
	}
	if err = m.ensureIndexes(ctx); err != nil {
		m.log.Warn("creating indexes", sl.Err(err))
	}
	m.log.Info("connected",
		slog.String("host", conf.Mongo.Host),
		slog.String("database", conf.Mongo.Database))
	return m, nil
}

func (m *MongoDB) db() *mongo.Database {
	return m.client.Database(m.database)
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	for _, name := range []string{catalogsCollection, statusesCollection} {
		_, err := m.db().Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: unique,
		})
		if err != nil {
			return fmt.Errorf("%s index: %w", name, err)
		}
	}
	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("mongodb find error: %w", err)
}
