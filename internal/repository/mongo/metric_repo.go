package mongo

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/policy"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const metricCollectionName = "metrics"

// mongoMetricRepository implements repository.MetricRepository.
type mongoMetricRepository struct {
	collection *mongo.Collection
}

// NewMongoMetricRepository creates a new Metric repository.
func NewMongoMetricRepository(db *mongo.Database) repository.MetricRepository {
	return &mongoMetricRepository{
		collection: db.Collection(metricCollectionName),
	}
}

// Create inserts a new metric.
func (r *mongoMetricRepository) Create(ctx context.Context, metric *domain.Metric) (primitive.ObjectID, error) {
	if metric.UserID == primitive.NilObjectID || metric.Type == "" {
		return primitive.NilObjectID, errors.New("metric requires userId and type")
	}
	metric.ID = primitive.NewObjectID()
	metric.CreatedAt = time.Now().UTC()
	if metric.RecordedAt.IsZero() {
		metric.RecordedAt = metric.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, metric)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted metric ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single metric by its ID.
func (r *mongoMetricRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Metric, error) {
	var metric domain.Metric
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&metric)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &metric, nil
}

// List retrieves metrics visible under the given policy scope.
func (r *mongoMetricRepository) List(ctx context.Context, scope policy.Scope) ([]domain.Metric, error) {
	filter, ok := scopeFilter(scope)
	if !ok {
		return []domain.Metric{}, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "recordedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var metrics []domain.Metric
	if err = cursor.All(ctx, &metrics); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = []domain.Metric{}
	}
	return metrics, nil
}

// Delete removes a metric by its ID.
func (r *mongoMetricRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMetricIndexes creates necessary indexes. Call during startup.
func EnsureMetricIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "recordedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "type", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
