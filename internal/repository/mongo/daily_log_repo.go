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

const dailyLogCollectionName = "daily_logs"

// mongoDailyLogRepository implements repository.DailyLogRepository.
type mongoDailyLogRepository struct {
	collection *mongo.Collection
}

// NewMongoDailyLogRepository creates a new DailyLog repository.
func NewMongoDailyLogRepository(db *mongo.Database) repository.DailyLogRepository {
	return &mongoDailyLogRepository{
		collection: db.Collection(dailyLogCollectionName),
	}
}

// Create inserts a new daily log.
func (r *mongoDailyLogRepository) Create(ctx context.Context, log *domain.DailyLog) (primitive.ObjectID, error) {
	if log.UserID == primitive.NilObjectID || log.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("daily log requires userId and planId")
	}
	log.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	log.CreatedAt = now
	log.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted daily log ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single daily log by its ID.
func (r *mongoDailyLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DailyLog, error) {
	var log domain.DailyLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// List retrieves daily logs visible under the given policy scope.
func (r *mongoDailyLogRepository) List(ctx context.Context, scope policy.Scope) ([]domain.DailyLog, error) {
	filter, ok := scopeFilter(scope)
	if !ok {
		return []domain.DailyLog{}, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.DailyLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.DailyLog{}
	}
	return logs, nil
}

// Update replaces the mutable fields of a daily log.
func (r *mongoDailyLogRepository) Update(ctx context.Context, log *domain.DailyLog) error {
	filter := bson.M{"_id": log.ID}
	update := bson.M{
		"$set": bson.M{
			"date":                 log.Date,
			"actualNutrition":      log.ActualNutrition,
			"actualExercise":       log.ActualExercise,
			"completionPercentage": log.CompletionPercentage,
			"notes":                log.Notes,
			"updatedAt":            time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a daily log by its ID.
func (r *mongoDailyLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDailyLogIndexes creates necessary indexes. Call during startup.
func EnsureDailyLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "planId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
