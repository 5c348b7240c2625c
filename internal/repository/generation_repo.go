package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"testgen/internal/model"
)

// GenerationRunRepo keeps a log of test generations in MongoDB
type GenerationRunRepo interface {
	Record(ctx context.Context, run *model.GenerationRun) (string, error)
	RecentByOwner(ctx context.Context, ownerID string, limit int64) ([]*model.GenerationRun, error)
}

type generationRunRepo struct {
	collection *mongo.Collection
}

// NewGenerationRunRepo creates a new generation run repository
func NewGenerationRunRepo(db *mongo.Database) GenerationRunRepo {
	return &generationRunRepo{
		collection: db.Collection("generation_runs"),
	}
}

func (r *generationRunRepo) Record(ctx context.Context, run *model.GenerationRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, run); err != nil {
		return "", err
	}
	return run.ID, nil
}

func (r *generationRunRepo) RecentByOwner(ctx context.Context, ownerID string, limit int64) ([]*model.GenerationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	runs := make([]*model.GenerationRun, 0)
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// NopGenerationRunRepo is used when no MongoDB is configured
type NopGenerationRunRepo struct{}

func (NopGenerationRunRepo) Record(_ context.Context, run *model.GenerationRun) (string, error) {
	return run.ID, nil
}

func (NopGenerationRunRepo) RecentByOwner(context.Context, string, int64) ([]*model.GenerationRun, error) {
	return []*model.GenerationRun{}, nil
}
