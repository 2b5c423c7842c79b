// Package mongo provides the document-oriented record backend.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/omkarsat/lumi-agent/internal/config"
	"github.com/omkarsat/lumi-agent/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordRepository implements domain.RecordRepository on MongoDB
type RecordRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewRecordRepository connects to MongoDB and ensures the unique index
// on complaint_id exists.
func NewRecordRepository(ctx context.Context, cfg config.MongoConfig) (*RecordRepository, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI())
	if cfg.Timeout > 0 {
		clientOpts.SetConnectTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "complaint_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return nil, fmt.Errorf("failed to create unique index: %w", err)
	}

	return &RecordRepository{client: client, collection: collection}, nil
}

// Close disconnects the underlying client
func (r *RecordRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *RecordRepository) Create(ctx context.Context, record *domain.SupportRecord) error {
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (r *RecordRepository) Get(ctx context.Context, id string) (*domain.SupportRecord, error) {
	var rec domain.SupportRecord
	err := r.collection.FindOne(ctx, bson.M{"complaint_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find record: %w", err)
	}
	return &rec, nil
}

func (r *RecordRepository) Exists(ctx context.Context, id string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"complaint_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count records: %w", err)
	}
	return count > 0, nil
}

func (r *RecordRepository) UpdateStatus(ctx context.Context, id string, status domain.RecordStatus) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"complaint_id": id},
		bson.M{"$set": bson.M{"status": string(status)}},
	)
	if err != nil {
		return fmt.Errorf("failed to update record status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *RecordRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}
