// Package mongodb stores documents in MongoDB collections.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"tracker/internal/models"
	"tracker/internal/query"
	"tracker/internal/storage"
)

// Store wraps a MongoDB database handle.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger logrus.FieldLogger
}

var _ storage.Store = (*Store)(nil)

// Open connects, pings and provisions indexes. timeout bounds the connect
// and ping round trip.
func Open(ctx context.Context, uri, database string, timeout time.Duration, logger logrus.FieldLogger) (*Store, error) {
	if uri == "" || database == "" {
		return nil, fmt.Errorf("mongo uri and database are required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", translate(err))
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", translate(err))
	}

	s := &Store{client: client, db: client.Database(database), logger: logger.WithField("store", "mongodb")}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	s.logger.WithField("database", database).Info("mongodb store ready")
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := map[storage.Collection][]mongo.IndexModel{
		storage.Tasks: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "due_date", Value: 1}}},
			{Keys: bson.D{{Key: "priority", Value: 1}}},
			{Keys: bson.D{{Key: "project_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "assigned_to", Value: 1}}},
		},
		storage.Projects: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "priority", Value: 1}}},
			{Keys: bson.D{{Key: "created_by", Value: 1}}},
			{Keys: bson.D{{Key: "team_members.user", Value: 1}}},
			{Keys: bson.D{{Key: "start_date", Value: 1}}},
			{Keys: bson.D{{Key: "end_date", Value: 1}}},
		},
		storage.Users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "role", Value: 1}}},
			{Keys: bson.D{{Key: "is_active", Value: 1}}},
		},
	}
	for c, idx := range indexes {
		if _, err := s.db.Collection(string(c)).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", c, translate(err))
		}
	}
	return nil
}

// FindMany decodes all matching documents into out, a pointer to a slice.
func (s *Store) FindMany(ctx context.Context, c storage.Collection, f query.Filter, out any) error {
	opts := options.Find()
	if len(f.Sort) > 0 {
		opts.SetSort(sortDocument(f.Sort))
	}
	cursor, err := s.db.Collection(string(c)).Find(ctx, filterDocument(f.Conditions), opts)
	if err != nil {
		return fmt.Errorf("find %s: %w", c, translate(err))
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", c, translate(err))
	}
	return nil
}

// FindByID decodes a single document into out.
func (s *Store) FindByID(ctx context.Context, c storage.Collection, id string, out any) error {
	err := s.db.Collection(string(c)).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", c, id, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", c, translate(err))
	}
	return nil
}

// Insert stores doc; its _id must equal id.
func (s *Store) Insert(ctx context.Context, c storage.Collection, id string, doc any) error {
	if _, err := s.db.Collection(string(c)).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s %s: %w", c, id, translate(err))
	}
	return nil
}

// UpdateByID applies $set for non-nil fields and $unset for nil ones.
func (s *Store) UpdateByID(ctx context.Context, c storage.Collection, id string, fields map[string]any) error {
	result, err := s.db.Collection(string(c)).UpdateByID(ctx, id, updateDocument(fields))
	if err != nil {
		return fmt.Errorf("update %s: %w", c, translate(err))
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", c, id, models.ErrNotFound)
	}
	return nil
}

// DeleteByID removes a document by id.
func (s *Store) DeleteByID(ctx context.Context, c storage.Collection, id string) error {
	result, err := s.db.Collection(string(c)).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete %s: %w", c, translate(err))
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%s %s: %w", c, id, models.ErrNotFound)
	}
	return nil
}

// Distinct returns the distinct string values of field.
func (s *Store) Distinct(ctx context.Context, c storage.Collection, field string) ([]string, error) {
	raw, err := s.db.Collection(string(c)).Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", c, field, translate(err))
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok {
			values = append(values, str)
		}
	}
	return values, nil
}

// Count returns the number of documents matching f.
func (s *Store) Count(ctx context.Context, c storage.Collection, f query.Filter) (int64, error) {
	n, err := s.db.Collection(string(c)).CountDocuments(ctx, filterDocument(f.Conditions))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c, translate(err))
	}
	return n, nil
}

// Ping checks connectivity to the primary.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", translate(err))
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", models.ErrDuplicateKey, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err),
		errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	default:
		return err
	}
}
