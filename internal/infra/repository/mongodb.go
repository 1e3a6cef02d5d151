package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CatGalleryCrawler/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoRepository(client *mongo.Client, dbName, collectionName string) (*MongoRepository, error) {
	db := client.Database(dbName)
	repo := &MongoRepository{
		db:         db,
		collection: db.Collection(collectionName),
	}

	if err := repo.createIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return repo, nil
}

func (r *MongoRepository) createIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("created_at_id_idx"),
		},
		{
			Keys: bson.D{
				{Key: "tags", Value: 1},
			},
			Options: options.Index().SetName("tags_idx"),
		},
	}

	opts := options.CreateIndexes().SetMaxTime(10 * time.Second)
	_, err := r.collection.Indexes().CreateMany(ctx, models, opts)
	return err
}

func (r *MongoRepository) Upsert(ctx context.Context, cat *domain.CatImage) error {
	filter := bson.M{"_id": cat.ID}
	update := bson.M{"$set": cat}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert cat: %w", err)
	}
	return nil
}

func (r *MongoRepository) BulkUpsert(ctx context.Context, cats []domain.CatImage) error {
	if len(cats) == 0 {
		return nil
	}

	var models []mongo.WriteModel
	for _, cat := range cats {
		filter := bson.M{"_id": cat.ID}
		update := bson.M{"$set": cat}
		model := mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true)
		models = append(models, model)
	}

	opts := options.BulkWrite().SetOrdered(false)
	_, err := r.collection.BulkWrite(ctx, models, opts)
	if err != nil {
		return fmt.Errorf("failed to bulk upsert cats: %w", err)
	}
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*domain.CatImage, error) {
	var cat domain.CatImage
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cat)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// List returns one gallery window sorted by created_at descending, tie-broken
// by id so pages stay stable between requests.
func (r *MongoRepository) List(ctx context.Context, skip, limit int) ([]domain.CatImage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cats: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			slog.Warn("Failed to close cursor", "error", err)
		}
	}()

	cats := make([]domain.CatImage, 0, limit)
	if err := cursor.All(ctx, &cats); err != nil {
		return nil, fmt.Errorf("failed to decode cats: %w", err)
	}
	return cats, nil
}

func (r *MongoRepository) GetContentHashes(ctx context.Context, ids []string) (map[string]string, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}}
	opts := options.Find()
	// Only fetch _id and content_hash
	opts.SetProjection(bson.M{"_id": 1, "content_hash": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			slog.Warn("Failed to close cursor", "error", err)
		}
	}()

	results := make(map[string]string)
	for cursor.Next(ctx) {
		var doc struct {
			ID          string `bson:"_id"`
			ContentHash string `bson:"content_hash"`
		}
		if err := cursor.Decode(&doc); err != nil {
			continue // Skip malformed
		}
		results[doc.ID] = doc.ContentHash
	}
	return results, cursor.Err()
}
