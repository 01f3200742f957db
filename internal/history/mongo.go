package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"video-upscaler-backend/internal/models"
)

type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// document is the stored shape; the id is a Mongo ObjectID.
type document struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	UserID           string             `bson:"user_id"`
	OriginalVideoURL string             `bson:"original_video_url"`
	EnhancedVideoURL *string            `bson:"enhanced_video_url"`
	Status           string             `bson:"status"`
	CreatedAt        time.Time          `bson:"created_at"`
	EndedAt          *time.Time         `bson:"ended_at"`
	Model            string             `bson:"model"`
	Resolution       string             `bson:"resolution"`
	PredictTime      *float64           `bson:"predict_time"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	return &MongoStore{client: client, collection: client.Database(database).Collection(collection)}, nil
}

// NewMongoStoreFromCollection wraps an existing collection.
func NewMongoStoreFromCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: coll.Database().Client(), collection: coll}
}

// EnsureIndexes creates the index backing per-user newest-first reads.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return &models.StoreError{Store: "mongodb", Op: "create index", Err: err}
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, entry models.HistoryEntry) (string, error) {
	doc := document{
		UserID:           entry.UserID,
		OriginalVideoURL: entry.OriginalVideoURL,
		EnhancedVideoURL: entry.EnhancedVideoURL,
		Status:           string(entry.Status),
		CreatedAt:        entry.CreatedAt,
		EndedAt:          entry.EndedAt,
		Model:            entry.Model,
		Resolution:       entry.Resolution,
		PredictTime:      entry.PredictTime,
		UpdatedAt:        entry.UpdatedAt,
	}

	res, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", mongoError("insert", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprint(res.InsertedID), nil
	}
	return id.Hex(), nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, mongoError("find", err)
	}
	defer cursor.Close(ctx)

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, &models.StoreError{Store: "mongodb", Op: "decode", Err: err}
	}

	entries := make([]models.HistoryEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, models.HistoryEntry{
			ID:               d.ID.Hex(),
			UserID:           d.UserID,
			OriginalVideoURL: d.OriginalVideoURL,
			EnhancedVideoURL: d.EnhancedVideoURL,
			Status:           models.JobStatus(d.Status),
			CreatedAt:        d.CreatedAt,
			EndedAt:          d.EndedAt,
			Model:            d.Model,
			Resolution:       d.Resolution,
			PredictTime:      d.PredictTime,
			UpdatedAt:        d.UpdatedAt,
		})
	}
	return entries, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return &models.StoreError{Store: "mongodb", Op: "ping", Err: errors.Join(models.ErrStoreUnavailable, err)}
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// mongoError marks network and timeout failures as store-unavailable.
func mongoError(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		err = errors.Join(models.ErrStoreUnavailable, err)
	}
	return &models.StoreError{Store: "mongodb", Op: op, Err: err}
}
